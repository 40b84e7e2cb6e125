package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soltixdb/sfb/internal/utils"
)

func TestMasker_Apply(t *testing.T) {
	m := NewMasker([]string{"cpf", " salario ", "", "cpf"})
	assert.ElementsMatch(t, []string{"cpf", "salario"}, m.Fields())

	original := map[string]interface{}{"value": 10, "cpf": "123.456.789-00", "salario": 5000, "name": "x"}
	input := []RawRecord{original, 42.0}

	out := m.Apply(input)

	masked := out[0].(map[string]interface{})
	assert.Equal(t, utils.MaskedValue, masked["cpf"])
	assert.Equal(t, utils.MaskedValue, masked["salario"])
	assert.Equal(t, 10, masked["value"])
	assert.Equal(t, "x", masked["name"])
	assert.Equal(t, 42.0, out[1])

	assert.Equal(t, "123.456.789-00", original["cpf"], "input must not be modified")
}

func TestMasker_Disabled(t *testing.T) {
	var nilMasker *Masker
	assert.False(t, nilMasker.Enabled())
	assert.False(t, NewMasker(nil).Enabled())

	input := []RawRecord{map[string]interface{}{"cpf": "1"}}
	assert.Equal(t, input, NewMasker(nil).Apply(input))
}
