package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zamzam-app/feedback-service/internal/validator"
)

func newUploadServiceForTest(config UploadSignerConfig) UploadService {
	return NewUploadService(testLogger(), validator.New(), config)
}

func TestUploadService_SignUpload(t *testing.T) {
	config := UploadSignerConfig{
		BaseURL: "https://assets.example.com",
		Secret:  "signing-secret",
		TTL:     5 * time.Minute,
	}
	service := newUploadServiceForTest(config)

	req := &SignUploadRequest{
		FileName:    "menu photo.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   2048,
	}

	ticket, err := service.SignUpload(context.Background(), req, managerSession())

	assert.NoError(t, err)
	assert.NotEmpty(t, ticket.Token)
	assert.WithinDuration(t, time.Now().Add(config.TTL), ticket.ExpiresAt, 2*time.Second)

	// The asset host recomputes the signature from the ticket fields.
	payload := fmt.Sprintf("%s|%s|%s|%d", ticket.Token, req.FileName, req.ContentType, ticket.ExpiresAt.Unix())
	mac := hmac.New(sha256.New, []byte(config.Secret))
	mac.Write([]byte(payload))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), ticket.Signature)

	assert.Contains(t, ticket.UploadURL, "https://assets.example.com/upload/"+ticket.Token)
	assert.Contains(t, ticket.UploadURL, "name=menu+photo.jpg")
	assert.Contains(t, ticket.UploadURL, fmt.Sprintf("expires=%d", ticket.ExpiresAt.Unix()))
}

func TestUploadService_SignUpload_Validation(t *testing.T) {
	service := newUploadServiceForTest(UploadSignerConfig{
		BaseURL: "https://assets.example.com",
		Secret:  "signing-secret",
	})

	testCases := []struct {
		name string
		req  *SignUploadRequest
	}{
		{
			name: "empty descriptor",
			req:  &SignUploadRequest{},
		},
		{
			name: "missing content type",
			req:  &SignUploadRequest{FileName: "photo.jpg", SizeBytes: 100},
		},
		{
			name: "oversized file",
			req:  &SignUploadRequest{FileName: "photo.jpg", ContentType: "image/jpeg", SizeBytes: 50 * 1024 * 1024},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ticket, err := service.SignUpload(context.Background(), tc.req, managerSession())

			assert.Nil(t, ticket)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestUploadService_DefaultTTL(t *testing.T) {
	service := newUploadServiceForTest(UploadSignerConfig{
		BaseURL: "https://assets.example.com",
		Secret:  "signing-secret",
	})

	ticket, err := service.SignUpload(context.Background(), &SignUploadRequest{
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   1,
	}, managerSession())

	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), ticket.ExpiresAt, 2*time.Second)
}
