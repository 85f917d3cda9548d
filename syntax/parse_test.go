package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

const storageSource = `from sqlalchemy import Column, Integer, String
from database import Base


class Student(Base):
    """Persistence model for Student."""

    __tablename__ = "students"

    id = Column(Integer, primary_key=True, index=True)
    name = Column(String, nullable=False)
`

const routerSource = `from fastapi import APIRouter, HTTPException

router = APIRouter()


@router.get("/students/{student_id}")
def get_student(student_id: int) -> dict:
    """Fetch a single student."""
    record = lookup(student_id)
    if record is None:
        raise HTTPException(status_code=404, detail="not found")
    return record


@router.post("/students")
async def create_student(
    payload: dict,
    notify: bool = False,
) -> dict:
    return save(payload)
`

func TestParseImports(t *testing.T) {
	f, err := Parse(storageSource)
	require.NoError(t, err)
	require.Len(t, f.Imports, 2)
	assert.Equal(t, "from sqlalchemy import Column, Integer, String", f.Imports[0].Statement)
	assert.Equal(t, 1, f.Imports[0].Line)
	assert.True(t, f.HasImport("from database import Base"))
	assert.False(t, f.HasImport("import os"))
}

func TestParseClassDecl(t *testing.T) {
	f, err := Parse(storageSource)
	require.NoError(t, err)

	d := f.Decl("Student")
	require.NotNil(t, d)
	assert.Equal(t, DeclType, d.Kind)
	assert.Equal(t, 5, d.Line)
	assert.Equal(t, "Persistence model for Student.", d.Doc)
	assert.Greater(t, d.BodyEnd, d.BodyStart)
}

func TestParseFunctionDecl(t *testing.T) {
	f, err := Parse(routerSource)
	require.NoError(t, err)

	d := f.Decl("get_student")
	require.NotNil(t, d)
	assert.Equal(t, DeclFunc, d.Kind)
	assert.Equal(t, "dict", d.ReturnType)
	require.Len(t, d.Params, 1)
	assert.Equal(t, Param{Name: "student_id", Type: "int"}, d.Params[0])
	assert.Equal(t, "Fetch a single student.", d.Doc)

	require.Len(t, d.Decorators, 1)
	assert.Equal(t, "router.get", d.Decorators[0].Name)
	assert.Equal(t, `@router.get("/students/{student_id}")`, d.Decorators[0].Raw)
	assert.NotNil(t, d.Decorator("router.get"))
	assert.Nil(t, d.Decorator("router.delete"))
}

func TestParseMultiLineSignature(t *testing.T) {
	f, err := Parse(routerSource)
	require.NoError(t, err)

	d := f.Decl("create_student")
	require.NotNil(t, d)
	require.Len(t, d.Params, 2)
	assert.Equal(t, Param{Name: "payload", Type: "dict"}, d.Params[0])
	// Default values are stripped, annotations kept.
	assert.Equal(t, Param{Name: "notify", Type: "bool"}, d.Params[1])
	assert.Equal(t, "dict", d.ReturnType)
	require.Len(t, d.Decorators, 1)
	assert.Equal(t, "router.post", d.Decorators[0].Name)
}

func TestParseIgnoresDelimitersInLiterals(t *testing.T) {
	src := "def emit() -> str:\n" +
		"    # closing ) in a comment\n" +
		"    return \"unbalanced ( [ { in a string\"\n"
	f, err := Parse(src)
	require.NoError(t, err)
	require.NotNil(t, f.Decl("emit"))
}

func TestParseTripleQuotedSpansLines(t *testing.T) {
	src := "def doc() -> str:\n" +
		"    \"\"\"First line\n" +
		"    second line { unbalanced\n" +
		"    \"\"\"\n" +
		"    return \"x\"\n"
	f, err := Parse(src)
	require.NoError(t, err)
	d := f.Decl("doc")
	require.NotNil(t, d)
	assert.Equal(t, "First line second line { unbalanced", d.Doc)
}

func TestParseBodySpansBracketContinuation(t *testing.T) {
	src := "def build() -> dict:\n" +
		"    \"\"\"Assemble the payload.\"\"\"\n" +
		"    return make(\n" +
		"1,\n" +
		")\n" +
		"\n" +
		"x = 1\n"
	f, err := Parse(src)
	require.NoError(t, err)

	d := f.Decl("build")
	require.NotNil(t, d)
	assert.Equal(t, 2, d.BodyStart)
	// The dedented continuation lines stay inside the body.
	assert.Equal(t, 5, d.BodyEnd)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
		msg    string
	}{
		{"unclosed paren", "import broken(\n", 1, "unclosed"},
		{"unexpected closer", "x = 1)\n", 1, "unexpected"},
		{"mismatched bracket", "x = (1]\n", 1, "mismatched"},
		{"unterminated string", "x = \"oops\n", 1, "unterminated string"},
		{"unterminated triple", "x = \"\"\"oops\n", 1, "unterminated string"},
		{"header missing colon", "def f()\n    pass\n", 1, "must end with ':'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			require.Error(t, err)
			assert.True(t, errors.Is(err, baes.ErrSyntaxInvalid))
			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.line, serr.Pos.Line)
			assert.Contains(t, serr.Msg, tt.msg)
		})
	}
}

func TestSourceRoundTrip(t *testing.T) {
	f, err := Parse(routerSource)
	require.NoError(t, err)
	assert.Equal(t, routerSource, f.Source())
}
