package main

import (
	"context"
	"fmt"
	"time"

	"engagement_survey/config"
	analyticsmodels "engagement_survey/internal/api/analytics/models"
	authmodels "engagement_survey/internal/api/auth/models"
	authsvc "engagement_survey/internal/api/auth/service"
	companymodels "engagement_survey/internal/api/company/models"
	responsemodels "engagement_survey/internal/api/response/models"
	surveymodels "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/database"
	"engagement_survey/internal/delivery/channels"
	"engagement_survey/internal/global"
	"engagement_survey/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// InitGlobal khởi tạo cấu hình và kết nối database, gán vào các biến toàn cục
func InitGlobal(ctx context.Context) error {
	if err := initConfig(); err != nil {
		return err
	}
	return initDatabase_MongoDB(ctx)
}

// Hàm khởi tạo cấu hình server
func initConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	global.MongoDB_ServerConfig = cfg
	logrus.Info("Initialized server config")
	return nil
}

// Hàm khởi tạo kết nối database, collection và index
func initDatabase_MongoDB(ctx context.Context) error {
	cfg := global.MongoDB_ServerConfig
	client, err := database.GetInstance(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	global.MongoDB_Session = client
	logrus.Info("Connected to MongoDB")

	db := client.Database(cfg.MongoDB_DBName)
	if err := database.EnsureCollections(ctx, db, global.MongoDB_ColNames.All()); err != nil {
		return err
	}
	logrus.Info("Ensured database and collections")

	cols := global.MongoDB_ColNames
	indexed := []struct {
		name  string
		model interface{}
	}{
		{cols.Companies, companymodels.Company{}},
		{cols.Users, authmodels.User{}},
		{cols.Surveys, surveymodels.Survey{}},
		{cols.Questions, surveymodels.Question{}},
		{cols.Snippets, surveymodels.Snippet{}},
		{cols.SurveyResponses, responsemodels.SurveyResponse{}},
		{cols.AverageResults, responsemodels.AverageResult{}},
		{cols.FactorRankings, responsemodels.FactorRanking{}},
		{cols.AnalyticsSnapshots, analyticsmodels.AnalyticsSnapshot{}},
	}
	for _, it := range indexed {
		indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.CreateIndexes(indexCtx, db.Collection(it.name), it.model)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", it.name, err)
		}
	}
	logrus.Info("Ensured indexes")
	return nil
}

// initFirebase khởi tạo Firebase Admin SDK. Trả về nil nếu chưa cấu hình hoặc lỗi (đăng nhập Firebase bị tắt)
func initFirebase(ctx context.Context, cfg *config.Configuration) authsvc.FirebaseVerifier {
	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Warn("Firebase config không đầy đủ, bỏ qua khởi tạo Firebase")
		return nil
	}
	verifier, err := utility.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
	if err != nil {
		// Không fatal, hệ thống vẫn chạy được với đăng nhập email/mật khẩu
		logrus.Errorf("Failed to initialize Firebase: %v", err)
		return nil
	}
	logrus.Info("Firebase initialized successfully")
	return verifier
}

// initMailer trả về SMTP mailer, hoặc NoopMailer khi chưa cấu hình SMTP_HOST
func initMailer(cfg *config.Configuration) channels.Mailer {
	if cfg.SMTP_Host == "" {
		logrus.Warn("SMTP_HOST not set, emails are discarded")
		return channels.NoopMailer{}
	}
	return channels.NewSMTPMailer(channels.SMTPConfig{
		Host:     cfg.SMTP_Host,
		Port:     cfg.SMTP_Port,
		Username: cfg.SMTP_Username,
		Password: cfg.SMTP_Password,
		From:     cfg.SMTP_From,
	})
}

// collection lấy collection đã đăng ký trong registry
func collection(name string) (*mongo.Collection, error) {
	return global.RegistryCollections.MustGet(name)
}
