package utility

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"engagement_survey/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseIdentity là thông tin lấy từ Firebase ID token đã xác minh
type FirebaseIdentity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// FirebaseVerifier xác minh Firebase ID token bằng Admin SDK
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier khởi tạo Firebase Admin SDK. Đường dẫn credentials tương đối tính từ thư mục chứa config/
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsPath string) (*FirebaseVerifier, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is empty")
	}
	if !filepath.IsAbs(credentialsPath) {
		envDir, err := config.FindEnvDir()
		if err != nil {
			return nil, fmt.Errorf("không tìm thấy thư mục gốc: %w", err)
		}
		// config/env => thư mục gốc là cha của config
		credentialsPath = filepath.Join(filepath.Dir(filepath.Dir(envDir)), credentialsPath)
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyIDToken xác minh ID token và trả về danh tính
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseIdentity, error) {
	if v == nil || v.client == nil {
		return nil, fmt.Errorf("firebase auth not initialized")
	}
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	id := &FirebaseIdentity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.Name = name
	}
	if id.Email == "" {
		if rec, err := v.client.GetUser(ctx, token.UID); err == nil {
			id.Email = rec.Email
			id.EmailVerified = rec.EmailVerified
			if id.Name == "" {
				id.Name = rec.DisplayName
			}
		}
	}
	return id, nil
}
