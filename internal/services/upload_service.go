package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

// UploadSignerConfig configures ticket signing for the external asset
// host. No file bytes ever pass through this service; clients PUT
// directly to the host with the signed ticket.
type UploadSignerConfig struct {
	BaseURL string
	Secret  string
	TTL     time.Duration
}

type uploadService struct {
	logger    *slog.Logger
	validator *validator.Validator
	config    UploadSignerConfig
}

func NewUploadService(logger *slog.Logger, v *validator.Validator, config UploadSignerConfig) UploadService {
	if config.TTL <= 0 {
		config.TTL = 15 * time.Minute
	}
	return &uploadService{
		logger:    logger,
		validator: v,
		config:    config,
	}
}

// SignUpload issues a one-shot upload ticket. The signature covers the
// token, file name, content type and expiry, so the asset host can
// verify the ticket without a callback.
func (s *uploadService) SignUpload(ctx context.Context, req *SignUploadRequest, session *auth.Session) (*models.UploadTicket, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.config.TTL)

	payload := fmt.Sprintf("%s|%s|%s|%d", token, req.FileName, req.ContentType, expiresAt.Unix())
	mac := hmac.New(sha256.New, []byte(s.config.Secret))
	mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))

	uploadURL := fmt.Sprintf("%s/upload/%s?name=%s&type=%s&expires=%d",
		s.config.BaseURL,
		token,
		url.QueryEscape(req.FileName),
		url.QueryEscape(req.ContentType),
		expiresAt.Unix(),
	)

	s.logger.Info("Upload ticket signed",
		"user_id", session.UserID,
		"file_name", req.FileName,
		"size_bytes", req.SizeBytes)

	return &models.UploadTicket{
		Token:     token,
		UploadURL: uploadURL,
		Signature: signature,
		ExpiresAt: expiresAt,
	}, nil
}
