package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"Student":        "student",
		"CourseOffering": "course_offering",
		"Course Offering": "course_offering",
		"HTTPCode":       "http_code",
		"UserIDs":        "user_ids",
		"ID":             "id",
		"enrolled_count": "enrolled_count",
	}
	for input, want := range tests {
		assert.Equal(t, want, snake(input), "snake(%q)", input)
	}
}

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"student":         "Student",
		"course_offering": "CourseOffering",
		"Course Offering": "CourseOffering",
		"user_ids":        "UserIds",
	}
	for input, want := range tests {
		assert.Equal(t, want, pascal(input), "pascal(%q)", input)
	}
}

func TestCamel(t *testing.T) {
	assert.Equal(t, "courseOffering", camel("course_offering"))
	assert.Equal(t, "student", camel("Student"))
	assert.Equal(t, "", camel(""))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Course Offering", label("CourseOffering"))
	assert.Equal(t, "Enrolled Count", label("enrolled_count"))
}

func TestPluralSingular(t *testing.T) {
	assert.Equal(t, "students", rules.Pluralize("student"))
	assert.Equal(t, "courses", rules.Pluralize("course"))
	assert.Equal(t, "student", rules.Singularize("students"))
}

func TestTypename(t *testing.T) {
	tests := map[string]string{
		"string":    "str",
		"text":      "str",
		"number":    "int",
		"Integer":   "int",
		"double":    "float",
		"boolean":   "bool",
		"timestamp": "datetime",
		"date":      "date",
		"numeric":   "decimal",
		"geometry":  "geometry",
	}
	for input, want := range tests {
		assert.Equal(t, want, typename(input), "typename(%q)", input)
	}
}

func TestColumnType(t *testing.T) {
	assert.Equal(t, "Integer", columnType("int"))
	assert.Equal(t, "Float", columnType("float"))
	assert.Equal(t, "String", columnType("string"))
	assert.Equal(t, "Numeric", columnType("decimal"))
	assert.Equal(t, "DateTime", columnType("timestamp"))
}

func TestWidgetType(t *testing.T) {
	assert.Equal(t, "number", widgetType("int"))
	assert.Equal(t, "checkbox", widgetType("bool"))
	assert.Equal(t, "datetime-local", widgetType("datetime"))
	assert.Equal(t, "text", widgetType("str"))
}

func TestSampleValue(t *testing.T) {
	assert.Equal(t, "1", sampleValue("age", "int"))
	assert.Equal(t, "True", sampleValue("active", "bool"))
	assert.Equal(t, `"sample Name"`, sampleValue("name", "str"))
	assert.Equal(t, `"2024-01-01"`, sampleValue("enrolled_on", "date"))
}
