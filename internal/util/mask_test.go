package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(" "))
	assert.Equal(t, "***", MaskSecret("short"))
	assert.Equal(t, "eyJ…xyz", MaskSecret("eyJhbGciOiJIUzI1NiJ9.abcxyz"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/profiles", MaskDSN("postgres://app:secret@db:5432/profiles?sslmode=disable"))
	assert.Equal(t, "postgres://db:5432/profiles", MaskDSN("postgres://db:5432/profiles"))
	assert.Equal(t, "host=db", MaskDSN("host=db user=app password=secret dbname=profiles"))
	assert.Equal(t, "***", MaskDSN("password=secret"))
	assert.Equal(t, "", MaskDSN(""))
}
