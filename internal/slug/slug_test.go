package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Článok", "test-clanok"},
		{"Hello, World!", "hello-world"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Žltý kôň úpel ďábelské ódy", "zlty-kon-upel-dabelske-ody"},
		{"Vláda schválila rozpočet na rok 2026", "vlada-schvalila-rozpocet-na-rok-2026"},
		{"a   b___c", "a-b-c"},
		{"", ""},
		{"!!!", ""},
		{"UPPER lower", "upper-lower"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	titles := []string{"Šport: Slovan vyhral", "Kultúra a umenie", "Untitled"}
	for _, title := range titles {
		first := Slugify(title)
		assert.Equal(t, first, Slugify(title))
		assert.Equal(t, first, Slugify(first), "slugifying a slug must be a no-op")
	}
}

func TestSlugifyCollision(t *testing.T) {
	assert.Equal(t, Slugify("Voľby 2026"), Slugify("Volby - 2026"))
}

func TestCategoryKey(t *testing.T) {
	tests := map[string]string{
		"Kultúra":        "kultura",
		"Šport":          "sport",
		"Technológie":    "technologie",
		"POLITIKA":       "politika",
		"zdravie & veda": "zdravieveda",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CategoryKey(in), in)
	}
}
