package alerts

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	// HighCPUAlertName is the only alert the webhook reacts to.
	HighCPUAlertName = "HighCPUUsage"

	defaultNamespace = "default"

	maxPayloadBytes = 1 << 20
)

// Webhook is the Alertmanager webhook payload.
type Webhook struct {
	Status string  `json:"status,omitempty"`
	Alerts []Alert `json:"alerts"`
}

type Alert struct {
	Status      string            `json:"status,omitempty"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
}

// Handle logs every HighCPUUsage alert in the payload. It never scales anything.
func Handle(logger *slog.Logger) http.HandlerFunc {
	logger = logger.With("handler", "alerts")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload Webhook

		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err := decoder.Decode(&payload); err != nil {
			logger.WarnContext(ctx, "invalid alert payload", "reason", err)
			http.Error(w, "invalid alert payload", http.StatusBadRequest)

			return
		}

		for i := range payload.Alerts {
			alert := &payload.Alerts[i]
			if alert.Labels["alertname"] != HighCPUAlertName {
				continue
			}

			namespace := alert.Labels["namespace"]
			if namespace == "" {
				namespace = defaultNamespace
			}

			logger.InfoContext(ctx, "high cpu alert received",
				"pod", alert.Labels["pod"],
				"namespace", namespace,
				"cpu", alert.Annotations["cpu"],
				"status", alert.Status,
			)
		}

		w.WriteHeader(http.StatusOK)
	}
}
