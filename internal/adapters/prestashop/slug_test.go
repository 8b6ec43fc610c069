package prestashop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Scarpa da Trekking", "scarpa-da-trekking"},
		{"  Été -- très chaud  ", "ete-tres-chaud"},
		{"Größe 42/43", "grosse-42-43"},
		{"---", ""},
		{"T-Shirt (Blu)", "t-shirt-blu"},
		{"100% Cotone", "100-cotone"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeFileName(t *testing.T) {
	assert.Equal(t, "manuale-uso.pdf", normalizeFileName("Manuale Uso.PDF"))
	assert.Equal(t, "attachment", normalizeFileName("   "))
	assert.Equal(t, "scheda.pdf", normalizeFileName("scheda.pdf"))
}
