package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqFormula(t *testing.T) {
	assert.Equal(t, "{Phone} = '0244123456'", Eq("Phone", "0244123456").Formula())
}

func TestEqFoldLowersBothSides(t *testing.T) {
	assert.Equal(t, "LOWER({Email}) = 'ama@example.com'", EqFold("Email", "Ama@Example.COM").Formula())
}

func TestOrAndNesting(t *testing.T) {
	f := Or(
		Eq("Phone", "0244123456"),
		And(EqFold("Email", "a@b.com"), Eq("Status", "Active")),
	)
	assert.Equal(t,
		"OR({Phone} = '0244123456', AND(LOWER({Email}) = 'a@b.com', {Status} = 'Active'))",
		f.Formula())
}

func TestSingleChildCollapses(t *testing.T) {
	assert.Equal(t, "{Phone} = '1'", Or(Eq("Phone", "1")).Formula())
}

func TestInListFormula(t *testing.T) {
	assert.Equal(t,
		"FIND('recABC', ARRAYJOIN({Member})) > 0",
		InList("Member", "recABC").Formula())
}

func TestEscaping(t *testing.T) {
	// A quote in the value must not terminate the literal.
	assert.Equal(t, `{Name} = 'O\'Brien'`, Eq("Name", "O'Brien").Formula())
	// Braces in a field name cannot break out of the placeholder.
	assert.Equal(t, "{Name} = 'x'", Eq("{Name}", "x").Formula())
}
