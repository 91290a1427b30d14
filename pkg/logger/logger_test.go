package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/inventario-medico-api/pkg/logger"
)

func TestNew_EstampaServicioEnCadaLinea(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "inventario-medico",
		Output:  &buf,
	})

	log.Info().Str("user_id", "u1").Msg("prueba")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inventario-medico", line["service"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "prueba", line["message"])
}

func TestNew_NivelConfigurado(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	assert.Equal(t, zerolog.WarnLevel, log.Zerolog().GetLevel())

	log.Info().Msg("debajo del nivel")
	assert.Empty(t, buf.Bytes(), "info no debe emitirse con nivel warn")

	log.Warn().Msg("visible")
	assert.NotEmpty(t, buf.Bytes())
}

// Nivel desconocido cae a info.
func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "loquesea", Output: &buf})
	assert.Equal(t, zerolog.InfoLevel, log.Zerolog().GetLevel())
}
