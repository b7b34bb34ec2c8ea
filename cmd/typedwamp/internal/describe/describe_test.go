package describe

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/typedwamp/contract"
)

func TestWrite(t *testing.T) {
	id := contract.Identifier{Name: "ArgumentsService", Package: "example.com/api"}
	out := Output{
		Contracts: []*contract.Contract{{
			Name: id,
			Methods: []contract.Method{{
				Name:   "Add2",
				Owner:  id,
				Params: []contract.Param{{Name: "a", Type: contract.Int(0)}, {Name: "b", Type: contract.Int(0)}},
				Result: contract.Future(contract.Int(0)),
				Marker: contract.Procedure("com.arguments.add2"),
			}},
		}},
		Warnings: []contract.Warning{{Code: "INTERFACE_TYPE", Message: "interface type mapped to 'any'", TypeName: "ArgumentsService"}},
	}

	var buf bytes.Buffer
	require.NoError(t, write(&buf, out, true))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")), "compact output is one line")

	var doc struct {
		Contracts []struct {
			Name    json.RawMessage `json:"name"`
			Methods []struct {
				Name   string          `json:"name"`
				Marker json.RawMessage `json:"marker"`
				Params []struct {
					Name string `json:"name"`
				} `json:"params"`
			} `json:"methods"`
		} `json:"contracts"`
		Warnings []struct {
			Code string `json:"code"`
			Type string `json:"type"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Contracts, 1)
	require.Len(t, doc.Contracts[0].Methods, 1)
	m := doc.Contracts[0].Methods[0]
	assert.Equal(t, "Add2", m.Name)
	assert.Contains(t, string(m.Marker), `"com.arguments.add2"`)
	require.Len(t, m.Params, 2)
	assert.Equal(t, "b", m.Params[1].Name)

	require.Len(t, doc.Warnings, 1)
	assert.Equal(t, "INTERFACE_TYPE", doc.Warnings[0].Code)
	assert.Equal(t, "ArgumentsService", doc.Warnings[0].Type)
}

func TestWrite_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, write(&buf, Output{}, false))
	assert.Equal(t, "{\n  \"contracts\": null\n}\n", buf.String())
}
