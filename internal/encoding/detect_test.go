package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/planora/internal/encoding"
)

const header = "Fecha;Moneda;Tipo de cambio\n"

func decodeAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, cs, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), cs
}

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := header + "14/06/2025;USD;17.2543\nAño;Dólar;0\n"

	got, cs := decodeAll(t, []byte(input))

	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, cs)
}

func TestDecode_Windows1252(t *testing.T) {
	// "Dólar estadounidense;Año\n" with ó = 0xF3 and ñ = 0xF1.
	latin1, err := charmap.Windows1252.NewEncoder().String("Dólar estadounidense;Año\n")
	require.NoError(t, err)

	got, cs := decodeAll(t, []byte(latin1))

	assert.Equal(t, "Dólar estadounidense;Año\n", got)
	assert.NotEqual(t, encoding.UTF8, cs)
}

func TestDecode_UTF8BOMStripped(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(header)...)

	got, cs := decodeAll(t, input)

	assert.Equal(t, header, got)
	assert.Equal(t, encoding.UTF8, cs)
}

func TestDecode_UTF16LE(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(header)
	require.NoError(t, err)

	got, cs := decodeAll(t, []byte(encoded))

	assert.Equal(t, header, got)
	assert.Equal(t, encoding.UTF16LE, cs)
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	input := header + strings.Repeat("14/06/2025;USD;17.2543\n", 500)

	r, err := encoding.NewUTF8Reader(strings.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
