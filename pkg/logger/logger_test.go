package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnitrack-api/pkg/logger"
)

func TestNew_AdjuntaServiceACadaLinea(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "omnitrack-api",
		Out:     &buf,
	})

	log.Info().Str("extra", "valor").Msg("arrancando")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "omnitrack-api", line["service"],
		"cada línea debe llevar el nombre del servicio")
	assert.Equal(t, "arrancando", line["message"])
	assert.Equal(t, "valor", line["extra"])
	assert.NotEmpty(t, line["time"], "cada línea lleva timestamp")
}

func TestNew_SinService_NoEmiteElCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Out: &buf})

	log.Info().Msg("hola")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, tiene := line["service"]
	assert.False(t, tiene)
}

func TestNew_NivelFiltraMensajes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	assert.Zero(t, buf.Len(), "debug e info quedan filtrados con nivel warn")

	log.Warn().Msg("esto sí")
	assert.Positive(t, buf.Len())
}

func TestNew_NivelVacio_EsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Out: &buf})

	log.Debug().Msg("filtrado")
	assert.Zero(t, buf.Len())

	log.Info().Msg("visible")
	assert.Positive(t, buf.Len())
}
