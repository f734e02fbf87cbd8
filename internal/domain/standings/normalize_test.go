package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"José Pérez":            "jose perez",
		"JOSE PEREZ":            "jose perez",
		"  Anna-Lena   O'Brien": "anna lena o brien",
		"Mika Häkkinen #1":      "mika hakkinen 1",
		"Zoë_Ward":              "zoe_ward",
		"":                      "",
		"!!!":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestNormalizeName_IsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"José Pérez", "Anna-Lena O'Brien", "Ｆｕｌｌｗｉｄｔｈ", "ǅemal Ĳsselmeer", "Łukasz Żak", "\tTabs\nand  spaces "}
	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "input %q", in)
	}
}

func TestNormalizeName_FoldsCaseAndDiacritics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NormalizeName("José Pérez"), NormalizeName("JOSE PEREZ"))
	assert.Equal(t, NormalizeName("Sébastien Loeb"), NormalizeName("sebastien LOEB"))
}
