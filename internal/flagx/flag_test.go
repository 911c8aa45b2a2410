package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValues(t *testing.T) {
	got := FilterArgs(
		[]string{"-a", "http://x/v1", "-z", "nope", "-l", "5"},
		[]string{"-a", "-l"},
	)
	require.Equal(t, []string{"-a", "http://x/v1", "-l", "5"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs(
		[]string{"--config=conf.json", "-a=http://x/v1", "--other=1"},
		[]string{"--config", "-a"},
	)
	require.Equal(t, []string{"--config=conf.json", "-a=http://x/v1"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "-l", "5"}, []string{"-a"})
	require.Equal(t, []string{"-a"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	require.Empty(t, FilterArgs(nil, []string{"-a"}))
	require.Empty(t, FilterArgs([]string{"-x", "1"}, []string{"-a"}))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"scrawl", "-c", "conf.json", "-a", "http://x/v1"}
	require.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"scrawl", "-config", "other.json"}
	require.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"scrawl", "-a", "http://x/v1"}
	require.Empty(t, JsonConfigFlags())
}
