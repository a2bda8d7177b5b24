package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"lamx12/nutri-plan/internal/inference"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxRelayBytes = 1 << 20

// InferenceHandler relays generation requests to the upstream model endpoint
// using the server-held credential, so clients never see it.
type InferenceHandler struct {
	upstreamURL   string
	upstreamToken string
	httpClient    *http.Client
	log           *logrus.Entry
}

func NewInferenceHandler(upstreamURL, upstreamToken string, httpClient *http.Client, log *logrus.Entry) *InferenceHandler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &InferenceHandler{
		upstreamURL:   upstreamURL,
		upstreamToken: upstreamToken,
		httpClient:    httpClient,
		log:           log,
	}
}

// Forward handles POST /api/v1/inference. The request body is checked and
// then sent upstream byte for byte; the upstream status and body are relayed
// unchanged.
func (h *InferenceHandler) Forward(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRelayBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Request body is too large or unreadable")
		return
	}
	var req inference.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Request body must be a JSON generation request")
		return
	}
	if strings.TrimSpace(req.Inputs) == "" {
		abortWithError(c, http.StatusBadRequest, "inputs is required")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.upstreamURL, bytes.NewReader(payload))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build upstream request")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	if h.upstreamToken != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+h.upstreamToken)
	}

	resp, err := h.httpClient.Do(upstreamReq)
	if err != nil {
		h.log.WithError(err).WithField("client_id", getClientIDFromContext(c)).Warn("upstream inference call failed")
		abortWithError(c, http.StatusBadGateway, "Upstream inference endpoint unreachable")
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBytes))
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to read upstream response")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	h.log.WithFields(logrus.Fields{
		"client_id": getClientIDFromContext(c),
		"status":    resp.StatusCode,
	}).Info("inference relayed")
	c.Data(resp.StatusCode, contentType, raw)
}
