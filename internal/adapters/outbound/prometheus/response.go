package prometheus

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/prometheus/common/model"

	"github.com/skillcoder/scaligator/internal/logic/controller"
)

const statusError = "error"

var (
	errUnexpectedStatus  = errors.New("unexpected prometheus response status")
	errMalformedResponse = errors.New("malformed prometheus response")
	errQueryFailed       = errors.New("prometheus query failed")
)

type queryResponse struct {
	Status    string     `json:"status"`
	ErrorType string     `json:"errorType,omitempty"`
	Error     string     `json:"error,omitempty"`
	Data      *queryData `json:"data"`
}

type queryData struct {
	ResultType string         `json:"resultType"`
	Result     []vectorSample `json:"result"`
}

// vectorSample keeps the value raw so one bad sample does not fail the response.
type vectorSample struct {
	Metric model.Metric      `json:"metric"`
	Value  []json.RawMessage `json:"value"`
}

func decodeResponse(body []byte) (*queryData, error) {
	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedResponse, err)
	}

	if resp.Status == statusError {
		return nil, fmt.Errorf("%w: %s: %s", errQueryFailed, resp.ErrorType, resp.Error)
	}

	if resp.Data == nil || resp.Data.Result == nil {
		return nil, fmt.Errorf("%w: missing data.result", errMalformedResponse)
	}

	return resp.Data, nil
}

// parseUsage maps each series carrying a pod label to a sample. It returns the
// number of series dropped for lacking the label. A later series for the same
// pod replaces an earlier one.
func parseUsage(body []byte) (controller.Usage, int, error) {
	data, err := decodeResponse(body)
	if err != nil {
		return nil, 0, err
	}

	usage := make(controller.Usage, len(data.Result))
	dropped := 0

	for i := range data.Result {
		series := &data.Result[i]

		pod, ok := series.Metric[podLabel]
		if !ok || pod == "" {
			dropped++

			continue
		}

		usage[string(pod)] = parseSample(series.Value)
	}

	return usage, dropped, nil
}

// parseSample reads the [<timestamp>, "<value>"] pair.
func parseSample(value []json.RawMessage) controller.Sample {
	const pairLen = 2

	if len(value) != pairLen {
		return controller.Sample{
			Err: fmt.Errorf("%w: value has %d elements", controller.ErrInvalidSample, len(value)),
		}
	}

	var raw string
	if err := json.Unmarshal(value[1], &raw); err != nil {
		return controller.Sample{Err: fmt.Errorf("%w: %w", controller.ErrInvalidSample, err)}
	}

	cpu, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return controller.Sample{Err: fmt.Errorf("%w: %w", controller.ErrInvalidSample, err)}
	}

	if math.IsNaN(cpu) || math.IsInf(cpu, 0) || cpu < 0 {
		return controller.Sample{Err: fmt.Errorf("%w: %q", controller.ErrInvalidSample, raw)}
	}

	return controller.Sample{CPU: cpu}
}
