package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nexadigital/nexa-api/pkg/httpclient"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/retry"
	"go.uber.org/zap"
)

const callTimeout = 20 * time.Second

// CallAsyncWithPayload posts payload as JSON to triggerURL in the background.
// 5xx responses and transport errors are retried; 4xx responses are not.
// Failures are logged and never reach the caller. The returned channel is
// closed when the call finishes (tests wait on it; production ignores it).
func CallAsyncWithPayload(triggerURL string, payload any, httpClient httpclient.Client) <-chan struct{} {
	done := make(chan struct{})
	if triggerURL == "" {
		close(done)
		return done
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode trigger payload", zap.Error(err), zap.String("url", triggerURL))
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		err := retry.Do(ctx, retry.WebhookConfig(), "trigger_webhook", func() error {
			return post(triggerURL, body, httpClient)
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL))
			return
		}

		logger.Info("Trigger URL called successfully", zap.String("url", triggerURL))
	}()

	return done
}

func post(triggerURL string, body []byte, httpClient httpclient.Client) error {
	resp, err := httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("trigger returned status %d", resp.StatusCode)
	default:
		return &retry.Permanent{Err: fmt.Errorf("trigger returned status %d", resp.StatusCode)}
	}
}
