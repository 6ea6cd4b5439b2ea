package main

import (
	"context"

	"engagement_survey/config"
	"engagement_survey/internal/api/initsvc"
	"engagement_survey/internal/logger"
)

// InitDefaultData tạo super admin và snippet mặc định nếu chưa có
func InitDefaultData(ctx context.Context, initService *initsvc.InitService, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	// 1. Super admin từ cấu hình
	log.Info("🔄 [INIT] Step 1: Initializing super admin...")
	if err := initService.InitSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		return err
	}

	// 2. Snippet nhận xét mặc định (chỉ khi chưa có snippet nào)
	log.Info("🔄 [INIT] Step 2: Initializing default snippets...")
	created, err := initService.InitSnippets(ctx)
	if err != nil {
		// Không chặn khởi động, admin có thể nhập snippet qua bulk
		log.WithError(err).Error("❌ [INIT] Step 2: Failed to initialize default snippets")
	} else {
		log.Infof("✅ [INIT] Step 2: %d default snippets created", created)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
	return nil
}
