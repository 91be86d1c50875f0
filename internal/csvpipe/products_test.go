package csvpipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts(t *testing.T) {
	in := "\ufeffSKU,Name,Price,Stock,Description\n" +
		"RUG-1, Berber rug ,120.50,3,Hand woven\n" +
		"LAMP-2,Brass lamp,45,,\n"
	ps, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "RUG-1", ps[0].SKU)
	assert.Equal(t, "Berber rug", ps[0].Name)
	assert.Equal(t, "120.5", ps[0].Price.String())
	assert.Equal(t, 3, ps[0].Stock)
	assert.Equal(t, 0, ps[1].Stock)
}

func TestReadProductsRejectsWholeFile(t *testing.T) {
	in := "SKU,Name,Price,Stock\n" +
		"RUG-1,Berber rug,120,1\n" +
		",Brass lamp,abc,-1\n"
	ps, err := ReadProducts(strings.NewReader(in))
	assert.Nil(t, ps)

	var ve validation.Errors
	require.True(t, errors.As(err, &ve), "got %v", err)
	var fields []string
	for _, fe := range ve {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"row 3.Price", "row 3.sku", "row 3.price", "row 3.countInStock"}, fields)
}

func TestReadProductsMissingColumn(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("SKU,Name\nA,B\n"))
	assert.EqualError(t, err, "Price: missing column")

	_, err = ReadProducts(strings.NewReader(""))
	assert.EqualError(t, err, "csv is empty")
}
