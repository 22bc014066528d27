package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/handler"
)

// result is the outcome of replaying one payload file.
type result struct {
	File   string
	Status int
	Body   string
	Err    error
}

// Delivered reports whether the service accepted the payload, either now or
// on an earlier delivery.
func (r result) Delivered() bool {
	return r.Err == nil && (r.Status == http.StatusOK || r.Status == http.StatusConflict)
}

// replayer posts captured webhook payloads to a running service.
type replayer struct {
	client *resty.Client
	url    string
	log    *zap.Logger
}

func newReplayer(url, secret string, timeout time.Duration, log *zap.Logger) *replayer {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Content-Type", "application/json")
	if secret != "" {
		client.SetHeader(handler.SecretHeader, secret)
	}
	return &replayer{client: client, url: url, log: log}
}

// ReplayFile posts the contents of path unchanged.
func (r *replayer) ReplayFile(ctx context.Context, path string) result {
	res := result{File: path}

	body, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read payload: %w", err)
		return res
	}
	if !json.Valid(body) {
		res.Err = fmt.Errorf("payload is not valid JSON")
		return res
	}

	resp, err := r.client.R().SetContext(ctx).SetBody(body).Post(r.url)
	if err != nil {
		res.Err = fmt.Errorf("failed to post payload: %w", err)
		return res
	}
	res.Status = resp.StatusCode()
	res.Body = resp.String()
	return res
}

// ReplayAll replays files in order and reports how many were not delivered.
func (r *replayer) ReplayAll(ctx context.Context, files []string) int {
	failed := 0
	for _, file := range files {
		res := r.ReplayFile(ctx, file)
		fields := []zap.Field{
			zap.String("file", res.File),
			zap.Int("status", res.Status),
			zap.String("response", res.Body),
		}
		switch {
		case res.Err != nil:
			failed++
			r.log.Error("Replay failed", append(fields, zap.Error(res.Err))...)
		case !res.Delivered():
			failed++
			r.log.Warn("Replay rejected", fields...)
		default:
			r.log.Info("Replayed", fields...)
		}
	}
	return failed
}
