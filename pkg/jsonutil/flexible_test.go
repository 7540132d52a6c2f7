package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string value", input: `"hello"`, want: "hello"},
		{name: "integer value", input: `42`, want: "42"},
		{name: "float value", input: `3.14`, want: "3.14"},
		{name: "boolean true", input: `true`, want: "true"},
		{name: "boolean false", input: `false`, want: "false"},
		{name: "null value", input: `null`, want: ""},
		{name: "empty input", input: ``, want: ""},
		{name: "nested object falls back to raw string", input: `{"a":1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(gjson.Parse(tt.input)))
		})
	}
}

func TestField_DoesNotInterpretPathSyntax(t *testing.T) {
	obj := gjson.Parse(`{"@id":"dtmi:com:acme:Thing;1","a.b":"dotted","name":"thing"}`)

	assert.Equal(t, "dtmi:com:acme:Thing;1", Field(obj, "@id").String())
	assert.Equal(t, "dotted", Field(obj, "a.b").String())
	assert.Equal(t, "thing", Field(obj, "name").String())
	assert.False(t, Field(obj, "missing").Exists())
	assert.False(t, Field(gjson.Parse(`[1,2]`), "name").Exists())
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"Property"}, StringList(gjson.Parse(`"Property"`)))
	assert.Equal(t, []string{"Property", "Temperature"}, StringList(gjson.Parse(`["Property","Temperature"]`)))
	assert.Nil(t, StringList(gjson.Parse(`null`)))
	assert.Nil(t, StringList(gjson.Result{}))
}

func TestStringOrObject_PreservesSourceOrder(t *testing.T) {
	got := StringOrObject(gjson.Parse(`{"sv":"Sak","en":"Thing","de":"Ding"}`), "")
	assert.Equal(t, []KeyValue{
		{Key: "sv", Value: "Sak"},
		{Key: "en", Value: "Thing"},
		{Key: "de", Value: "Ding"},
	}, got)

	got = StringOrObject(gjson.Parse(`"Thing"`), "")
	assert.Equal(t, []KeyValue{{Key: "", Value: "Thing"}}, got)

	assert.Nil(t, StringOrObject(gjson.Result{}, ""))
}

func TestOptionalInt(t *testing.T) {
	v, err := OptionalInt(gjson.Parse(`5`))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 5, *v)

	v, err = OptionalInt(gjson.Result{})
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = OptionalInt(gjson.Parse(`1.5`))
	assert.Error(t, err)

	_, err = OptionalInt(gjson.Parse(`"1"`))
	assert.Error(t, err)
}

func TestOptionalBool(t *testing.T) {
	v, err := OptionalBool(gjson.Parse(`true`))
	require.NoError(t, err)
	assert.True(t, v)

	v, err = OptionalBool(gjson.Result{})
	require.NoError(t, err)
	assert.False(t, v)

	_, err = OptionalBool(gjson.Parse(`"yes"`))
	assert.Error(t, err)
}
