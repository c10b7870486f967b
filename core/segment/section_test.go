package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSectionTitle(t *testing.T) {
	t.Run("Detects keyword heading", func(t *testing.T) {
		chunk := "Article 92 du règlement CRR\nLes exigences de fonds propres sont fixées comme suit."

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "Article 92 du règlement CRR", *title)
	})

	t.Run("Detects French keyword heading", func(t *testing.T) {
		chunk := "Chapitre II - Gouvernance\nLe conseil d'administration doit..."

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "Chapitre II - Gouvernance", *title)
	})

	t.Run("Detects numbered heading", func(t *testing.T) {
		chunk := "3. Capital Requirements\nInstitutions shall maintain a minimum ratio."

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "3. Capital Requirements", *title)
	})

	t.Run("Detects multi-level numeric heading", func(t *testing.T) {
		chunk := "3.2.1 Internal ratings\nBanks using the IRB approach must document their models."

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "3.2.1 Internal ratings", *title)
	})

	t.Run("Detects all-caps heading", func(t *testing.T) {
		chunk := "DISPOSITIONS FINALES DU TEXTE\nLe présent règlement entre en vigueur immédiatement."

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "DISPOSITIONS FINALES DU TEXTE", *title)
	})

	t.Run("Keyword detection beats later headings", func(t *testing.T) {
		chunk := "some introductory fragment\nSECTION 4: Reporting\n1. First item"

		title := DetectSectionTitle(chunk)

		require.NotNil(t, title)
		assert.Equal(t, "SECTION 4: Reporting", *title)
	})

	t.Run("Only the first five non-empty lines are scanned", func(t *testing.T) {
		lines := []string{
			"plain prose line without heading",
			"another plain prose line",
			"", // empty lines do not count
			"more prose without structure",
			"still more prose text",
			"final prose line of the window",
			"ARTICLE 5 - Too late to be seen",
		}

		title := DetectSectionTitle(strings.Join(lines, "\n"))

		assert.Nil(t, title)
	})

	t.Run("Truncates long titles to 150 characters", func(t *testing.T) {
		long := "ARTICLE 1 " + strings.Repeat("x", 200)

		title := DetectSectionTitle(long)

		require.NotNil(t, title)
		assert.Len(t, []rune(*title), 150)
	})

	t.Run("Returns nil when nothing matches", func(t *testing.T) {
		chunk := "les exigences sont définies plus loin dans le texte\net ne figurent pas ici"

		title := DetectSectionTitle(chunk)

		assert.Nil(t, title)
	})
}
