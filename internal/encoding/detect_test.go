package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austimes-tools/internal/encoding"
)

func TestNewUTF8ReaderPassthrough(t *testing.T) {
	input := "scen,region,fuel\nnet-zero,Québec,Pétrole\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8ReaderStripsBOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("scen,region\nbase,NSW\n")

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestNewUTF8ReaderTranscodesLatin1(t *testing.T) {
	// Windows-1252 "région;conso" with é = 0xE9.
	raw := []byte{'r', 0xE9, 'g', 'i', 'o', 'n', ';', 'c', 'o', 'n', 's', 'o', '\n'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(raw))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "région;conso\n", string(got))
}
