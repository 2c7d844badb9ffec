package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTripUnbound(t *testing.T) {
	cases := []string{
		"git status",
		"cmd {{var1}} {{{secret}}} {{var2}}",
		"kubectl get pods {{--context {{context}}}} {{-n {{namespace}}}}",
		"curl {{url:url}}",
	}
	for _, s := range cases {
		tpl := Parse(s, false)
		assert.Equal(t, s, tpl.String())
	}
}

func TestSequentialBindingAndContext(t *testing.T) {
	tpl := Parse("cmd {{var1}} {{{secret}}} {{var2}}", false)

	tpl, ok := tpl.SetNextVariable("A")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"var1": "A"}, tpl.CurrentVariableContext())

	tpl, ok = tpl.SetNextVariable("B")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"var1": "A"}, tpl.CurrentVariableContext())

	tpl, ok = tpl.SetNextVariable("C")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"var1": "A", "var2": "C"}, tpl.CurrentVariableContext())

	assert.False(t, tpl.HasPendingVariable())
	assert.Equal(t, "cmd A B C", tpl.String())
}

func TestParseVariableOptionsFunctions(t *testing.T) {
	v := ParseVariable("opt1|opt2:lower:kebab", false)

	assert.Equal(t, []string{"opt1", "opt2"}, v.Options)
	assert.Equal(t, "opt1|opt2", v.FlatName)
	assert.Equal(t, Functions{FuncLower, FuncKebab}, v.Functions)
	assert.False(t, v.Secret)

	names := v.EnvVarNames(true)
	assert.Contains(t, names, "OPT1_OPT2")
	assert.Contains(t, names, "OPT1")
	assert.Contains(t, names, "OPT2")
}

func TestEnvVarNamesNeverPath(t *testing.T) {
	v := ParseVariable("path", false)
	for _, name := range v.EnvVarNames(true) {
		assert.NotEqual(t, "PATH", name)
	}
}

func TestApplyFunctionsCharInvariant(t *testing.T) {
	fns := Functions{FuncKebab}
	for _, c := range " -_/abcABC123" {
		before := "x" + string(c) + "y"
		after := fns.Apply(before)
		if after != before {
			_, ok := ParseFunction(string(FuncKebab))
			assert.True(t, ok)
		}
	}
}

func TestKebabSnakeCollapseRuns(t *testing.T) {
	assert.Equal(t, "a-b-c", FuncKebab.Apply("a   b--c"))
	assert.Equal(t, "a_b_c", FuncSnake.Apply("a   b--c"))
}

func TestURLIdempotent(t *testing.T) {
	encoded := FuncURL.Apply("a b/c")
	assert.Equal(t, encoded, FuncURL.Apply(encoded))
}

func TestCompletionTemplateResolution(t *testing.T) {
	tpl := "kubectl get pods {{--context {{context}}}} {{-n {{namespace}}}}"

	assert.Equal(t, "kubectl get pods  -n prod", ResolveCompletionTemplate(tpl, map[string]string{"namespace": "prod"}))
	assert.Equal(t, "kubectl get pods --context cX -n prod", ResolveCompletionTemplate(tpl, map[string]string{"namespace": "prod", "context": "cX"}))
	assert.Equal(t, "kubectl get pods", ResolveCompletionTemplate(tpl, map[string]string{}))
}

func TestFlattenStr(t *testing.T) {
	assert.Equal(t, "cafe au lait", FlattenStr("café au lait!"))
	assert.Equal(t, "a b c", FlattenStr("A---B_C"))
}
