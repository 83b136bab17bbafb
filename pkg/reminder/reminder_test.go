package reminder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetfamily/roster/pkg/models"
)

func TestFirstName(t *testing.T) {
	// Sheets store "Nom Prénom": the first name is the last word.
	assert.Equal(t, "Alice", FirstName("Dupont Alice"))
	assert.Equal(t, "Jean", FirstName("Van Der Berg Jean"))
	assert.Equal(t, "Alice", FirstName("Alice"))
	assert.Equal(t, "", FirstName(""))
	assert.Equal(t, "", FirstName("   "))
}

func TestRenderAllStyles(t *testing.T) {
	st := &models.Student{Name: "Dupont Alice", Remaining: 40}

	for _, style := range Styles {
		msg, err := Render(st, style)
		require.NoError(t, err, "style=%s", style)
		assert.Contains(t, msg, "Alice", "style=%s", style)
		assert.Contains(t, msg, "40.00€", "style=%s", style)
	}
}

func TestRenderTones(t *testing.T) {
	st := &models.Student{Name: "Martin Bob", Remaining: 140}

	msg, err := Render(st, Casual)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "Salut Bob"))

	msg, err = Render(st, Formal)
	require.NoError(t, err)
	assert.Contains(t, msg, "Cordialement")

	msg, err = Render(st, Urgent)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "URGENT"))
}

func TestRenderUnknownStyle(t *testing.T) {
	_, err := Render(&models.Student{Name: "Dupont Alice"}, Style("angry"))
	assert.Error(t, err)
}
