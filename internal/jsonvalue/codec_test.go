package jsonvalue

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	obj, err := ParseObject([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
}

func TestParseNestedMemberKeys(t *testing.T) {
	obj, err := ParseObject([]byte(`{"records": {"a": ["1.1.1.1", {"ttl": 300}], "mx": {"pref": 10}}, "ip": "93.184.216.34"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"records", "ip"}, obj.Keys())

	records, ok := obj.Get("records")
	require.True(t, ok)

	nested, ok := records.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "mx"}, nested.Keys())

	a, ok := nested.Get("a")
	require.True(t, ok)

	arr, ok := a.(Array)
	require.True(t, ok)
	require.Len(t, arr, 2)

	inner, ok := arr[1].(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"ttl"}, inner.Keys())
}

func TestParseVariants(t *testing.T) {
	obj, err := ParseObject([]byte(`{
		"s": "text",
		"n": 1.50,
		"i": -3,
		"e": 1e3,
		"t": true,
		"f": false,
		"z": null,
		"a": ["x", 2, {"k": "v"}],
		"o": {"inner": []}
	}`))
	require.NoError(t, err)

	cases := map[string]Value{
		"s": String("text"),
		"n": Number("1.50"),
		"i": Number("-3"),
		"e": Number("1e3"),
		"t": Bool(true),
		"f": Bool(false),
		"z": Null{},
	}

	for key, want := range cases {
		got, ok := obj.Get(key)
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, want, got, "key %s", key)
	}

	arr, ok := obj.Get("a")
	require.True(t, ok)
	require.Equal(t, KindArray, arr.Kind())

	elems := arr.(Array)
	require.Len(t, elems, 3)
	assert.Equal(t, String("x"), elems[0])
	assert.Equal(t, Number("2"), elems[1])

	nested, ok := elems[2].(*Object)
	require.True(t, ok)
	v, _ := nested.Get("k")
	assert.Equal(t, String("v"), v)

	inner, ok := obj.Get("o")
	require.True(t, ok)
	require.Equal(t, KindObject, inner.Kind())

	emptyArr, _ := inner.(*Object).Get("inner")
	assert.Equal(t, Array{}, emptyArr)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty body", input: "", wantErr: io.ErrUnexpectedEOF},
		{name: "whitespace body", input: "  \n", wantErr: io.ErrUnexpectedEOF},
		{name: "html", input: "<html>oops</html>"},
		{name: "truncated object", input: `{"a": 1`},
		{name: "trailing value", input: `{"a": 1} {"b": 2}`, wantErr: ErrTrailingData},
		{name: "array document", input: `["a"]`, wantErr: ErrNotObject},
		{name: "string document", input: `"a"`, wantErr: ErrNotObject},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseObject([]byte(tc.input))
			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestDuplicateKeysKeepFirstPosition(t *testing.T) {
	obj, err := ParseObject([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	v, _ := obj.Get("a")
	assert.Equal(t, Number("3"), v)
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	input := `{"records":[{"type":"A","value":"1.2.3.4"},{"type":"MX","value":"mail.example.com"}],"ttl":300,"ok":true,"none":null}`

	obj, err := ParseObject([]byte(input))
	require.NoError(t, err)

	out, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestObjectWithEncodingJSON(t *testing.T) {
	type envelope struct {
		Data *Object `json:"data,omitempty"`
	}

	obj := NewObject(
		Member{Key: "b", Value: String("second")},
		Member{Key: "a", Value: Number("1")},
	)

	out, err := json.Marshal(envelope{Data: obj})
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"b":"second","a":1}}`, string(out))

	empty, err := json.Marshal(envelope{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))

	var decoded envelope
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []string{"b", "a"}, decoded.Data.Keys())
}

func TestObjectSetReplacesInPlace(t *testing.T) {
	obj := NewObject()
	obj.Set("x", String("1"))
	obj.Set("y", String("2"))
	obj.Set("x", nil)

	assert.Equal(t, 2, obj.Len())
	assert.Equal(t, []string{"x", "y"}, obj.Keys())

	v, ok := obj.Get("x")
	require.True(t, ok)
	assert.Equal(t, Null{}, v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestNilObject(t *testing.T) {
	var obj *Object

	assert.Equal(t, 0, obj.Len())
	assert.Nil(t, obj.Keys())
	assert.Nil(t, obj.Members())

	_, ok := obj.Get("a")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "invalid", Kind(0).String())
}

func TestDecodeReader(t *testing.T) {
	v, err := Decode(strings.NewReader(` {"ip": "93.184.216.34"} `))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())
}
