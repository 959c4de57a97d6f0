package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplatesHaveOnePlaceholder(t *testing.T) {
	t.Parallel()

	for _, name := range TemplateNames() {
		tmpl, ok := LookupTemplate(name)
		require.True(t, ok, name)
		require.Equal(t, 1, strings.Count(tmpl.Body, placeholder), name)
	}
}

func TestGeneralTemplateAsksForThreeSections(t *testing.T) {
	t.Parallel()

	rendered := templates[TemplateGeneral].Render("buy milk")
	require.Contains(t, rendered, "buy milk")
	require.NotContains(t, rendered, placeholder)
	require.Contains(t, rendered, "📌 Key Points")
	require.Contains(t, rendered, "✅ Action Items")
	require.Contains(t, rendered, "🎯 Main Takeaway")
}

func TestRenderSubstitutesOnlyThePlaceholder(t *testing.T) {
	t.Parallel()

	tmpl := Template{Name: "t", Body: "before {text} after"}
	require.Equal(t, "before say {text} twice after", tmpl.Render("say {text} twice"))
}

func TestLookupTemplate(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"general", "ideas", "meeting"}, TemplateNames())

	_, ok := LookupTemplate(" IDEAS ")
	require.True(t, ok)

	_, ok = LookupTemplate("haiku")
	require.False(t, ok)
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, err := NewProvider("", "")
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, p.Name())

	p, err = NewProvider("Gemini", "")
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, p.Name())

	_, err = NewProvider("claude", "")
	require.ErrorContains(t, err, "available: gemini, openai")
	require.False(t, IsKnownProvider("claude"))
	require.True(t, IsKnownProvider("openai"))
}
