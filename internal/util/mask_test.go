package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a…@e….com", MaskEmail("Ana@Example.com"))
	assert.Equal(t, "a@e….org", MaskEmail("a@example.org"))
	assert.Equal(t, "***", MaskEmail("abc"))
	assert.Equal(t, "", MaskEmail("  "))
	assert.Equal(t, "n…e", MaskEmail("no-at-sign"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/comanda", MaskDSN("postgres://app:hunter2@db:5432/comanda"))
	assert.Equal(t, "postgres://db/comanda", MaskDSN("postgres://db/comanda"))
	assert.Equal(t, "host=db ***", MaskDSN("host=db user=app password=hunter2"))
	assert.Equal(t, "", MaskDSN(""))
}
