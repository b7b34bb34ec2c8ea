package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/typedwamp/contract"
)

func ptr(s string) *string { return &s }

var foo = contract.Identifier{Name: "Foo", Package: "example.com/api"}

func TestMapMethod_Procedure(t *testing.T) {
	m := newMapper()

	method := contract.Method{
		Name:  "Ping",
		Owner: foo,
		Params: []contract.Param{
			{Name: "nick", Type: contract.String(), Default: ptr(`"somebody"`)},
			{Name: "count", Type: contract.Int(32)},
		},
		Result: contract.Future(contract.Slice(contract.String())),
		Marker: contract.Marker{Kind: contract.MarkerProcedure, URI: "com.example.ping", Invoke: contract.InvokeRoundRobin},
	}

	md, err := m.MapMethod(method)
	require.NoError(t, err)

	assert.Equal(t, "ping", md.Alias)
	assert.Equal(t, "Foo", md.ContractName)
	assert.Equal(t, "com.example.ping", md.URI)
	assert.Equal(t, contract.MarkerProcedure, md.Kind)
	assert.Equal(t, contract.InvokeRoundRobin, md.Invoke)
	assert.Equal(t, "string[]", md.ReturnType)
	assert.True(t, md.Remote())
	assert.False(t, md.EventHandler())

	require.Len(t, md.Parameters, 2)
	assert.Equal(t, ParameterMetadata{Alias: "nick", Type: "string", Optional: true, Default: `"somebody"`}, md.Parameters[0])
	assert.Equal(t, ParameterMetadata{Alias: "count", Type: "number", Optional: false}, md.Parameters[1])
}

func TestMapMethod_Topic(t *testing.T) {
	m := newMapper()

	md, err := m.MapMethod(contract.Method{
		Name:   "OnTick",
		Owner:  foo,
		Params: []contract.Param{{Name: "Value", Type: contract.Float(64)}},
		Marker: contract.Topic("com.example.tick"),
	})
	require.NoError(t, err)

	assert.Equal(t, "onTick", md.Alias)
	assert.Equal(t, "com.example.tick", md.URI)
	assert.True(t, md.EventHandler())
	assert.Equal(t, "void", md.ReturnType)
	assert.Equal(t, []ParameterMetadata{{Alias: "value", Type: "number"}}, md.Parameters)
}

func TestMapMethod_Unmarked(t *testing.T) {
	m := newMapper()

	md, err := m.MapMethod(contract.Method{
		Name:   "Close",
		Owner:  foo,
		Result: contract.Future(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, "", md.URI)
	assert.Equal(t, contract.MarkerNone, md.Kind)
	assert.False(t, md.Remote())
	assert.Equal(t, "void", md.ReturnType)
	assert.Empty(t, md.Parameters)
}

func TestMapMethod_OptionalOnlyWithDefault(t *testing.T) {
	m := newMapper()

	md, err := m.MapMethod(contract.Method{
		Name:  "Search",
		Owner: foo,
		Params: []contract.Param{
			{Name: "query", Type: contract.String()},
			{Name: "limit", Type: contract.Int(0), Default: ptr("10")},
			{Name: "cursor", Type: contract.Ptr(contract.String())},
		},
		Marker: contract.Procedure("com.example.search"),
	})
	require.NoError(t, err)

	var optional []bool
	for _, p := range md.Parameters {
		optional = append(optional, p.Optional)
	}
	// A nullable parameter without a default is still required.
	assert.Equal(t, []bool{false, true, false}, optional)
}

func TestMapMethod_KeyErrorNamesParameter(t *testing.T) {
	m := newMapper()

	_, err := m.MapMethod(contract.Method{
		Name:   "Lookup",
		Owner:  foo,
		Params: []contract.Param{{Name: "index", Type: contract.MapOf(contract.Bool(), contract.String())}},
		Marker: contract.Procedure("com.example.lookup"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter index")

	var keyErr *UnsupportedKeyTypeError
	assert.ErrorAs(t, err, &keyErr)
}

func TestMapMethods_Order(t *testing.T) {
	m := newMapper()

	c := &contract.Contract{
		Name: foo,
		Methods: []contract.Method{
			{Name: "B", Owner: foo, Marker: contract.Procedure("b")},
			{Name: "T", Owner: foo, Marker: contract.Topic("t")},
			{Name: "A", Owner: foo, Marker: contract.Procedure("a")},
			{Name: "Local", Owner: foo},
		},
	}

	procs, err := m.MapMethods(c, contract.MarkerProcedure)
	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, "b", procs[0].Alias)
	assert.Equal(t, "a", procs[1].Alias)

	topics, err := m.MapMethods(c, contract.MarkerTopic)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "t", topics[0].Alias)
}
