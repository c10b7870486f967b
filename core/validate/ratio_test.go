package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRatio(t *testing.T) {
	t.Run("Identical strings score one", func(t *testing.T) {
		assert.Equal(t, 1.0, sequenceRatio("Le ratio CET1 minimum", "Le ratio CET1 minimum"))
	})

	t.Run("Two empty strings score one", func(t *testing.T) {
		assert.Equal(t, 1.0, sequenceRatio("", ""))
	})

	t.Run("Disjoint strings score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, sequenceRatio("abc", "xyz"))
	})

	t.Run("Shifted overlap scores the shared block", func(t *testing.T) {
		// Shared block "bcd" of size 3, total length 8
		assert.InDelta(t, 0.75, sequenceRatio("abcd", "bcde"), 1e-9)
	})

	t.Run("Single insertion scores near one", func(t *testing.T) {
		// 4 matched runes over a total of 9
		assert.InDelta(t, 8.0/9.0, sequenceRatio("word", "word!"), 1e-9)
	})

	t.Run("Near-verbatim quote clears the fuzzy thresholds", func(t *testing.T) {
		reference := "Les établissements de crédit doivent maintenir un ratio de fonds propres de base de catégorie 1 de 4,5%."
		quoted := "Les établissements de crédit doivent maintenir un ratio de fonds propres de catégorie 1 de 4,5%."

		assert.GreaterOrEqual(t, sequenceRatio(quoted, reference), 0.90)
	})

	t.Run("Paraphrase stays below the fuzzy thresholds", func(t *testing.T) {
		reference := "Article 5 impose un seuil de 2%."
		paraphrase := "Le seuil est de 10%."

		assert.Less(t, sequenceRatio(paraphrase, reference), 0.85)
	})

	t.Run("Identical long strings score one despite popular runes", func(t *testing.T) {
		text := strings.Repeat("Les dispositions du présent règlement s'appliquent aux établissements assujettis. ", 5)

		assert.Equal(t, 1.0, sequenceRatio(text, text))
	})

	t.Run("Quote contained in a long reference matches in full", func(t *testing.T) {
		quoted := "Les dispositions du présent règlement s'appliquent aux établissements assujettis."
		reference := strings.Repeat(quoted+" ", 5)

		// The quote matches as one contiguous block, so the ratio is
		// exactly 2*len(quote)/(len(quote)+len(reference))
		qa := float64(len([]rune(quoted)))
		qb := float64(len([]rune(reference)))
		assert.InDelta(t, 2.0*qa/(qa+qb), sequenceRatio(quoted, reference), 1e-9)
	})

	t.Run("Near-verbatim quote against a long chunk clears the thresholds", func(t *testing.T) {
		reference := "Les établissements de crédit doivent maintenir à tout moment un ratio de fonds propres de base de catégorie 1 au moins égal à 4,5 % du montant total d'exposition au risque, conformément à l'article 92 du règlement (UE) no 575/2013 du Parlement européen et du Conseil."
		quoted := strings.Replace(reference, " de base", "", 1)
		require.GreaterOrEqual(t, len([]rune(reference)), 200)

		// A single contiguous deletion leaves two matching blocks covering
		// the whole quote, so the ratio is 2*len(quote)/(len(quote)+len(ref))
		qa := float64(len([]rune(quoted)))
		qb := float64(len([]rune(reference)))
		ratio := sequenceRatio(quoted, reference)
		assert.InDelta(t, 2.0*qa/(qa+qb), ratio, 1e-9)
		assert.GreaterOrEqual(t, ratio, 0.90)
	})
}
