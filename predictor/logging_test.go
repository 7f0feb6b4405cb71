package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "field", "fc(mm)")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "fc(mm)", line["field"])
}

func TestService_LogsRejectedRequests(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewService(Models{Classifier: &fakeClassifier{}, Regressor: &fakeRegressor{}},
		Config{}, NewLogger(LogConfig{Level: "info", Format: "text"}, &buf))
	require.NoError(t, err)

	raw := validInput()
	raw["fy(Mpa)"] = "four hundred"
	_, err = svc.Predict(context.Background(), raw)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "prediction rejected")
	assert.Contains(t, buf.String(), "result=invalid_format")
}
