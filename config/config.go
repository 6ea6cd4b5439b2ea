package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address     string `env:"ADDRESS" envDefault:"8080"`                        // Cổng server
	JwtSecret   string `env:"JWT_SECRET,required"`                              // Bí mật ký JWT
	JwtTTLHours int    `env:"JWT_TTL_HOURS" envDefault:"72"`                    // Thời gian sống của JWT (giờ)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"` // URL frontend (dùng trong email mời)

	AuthCacheSeconds int `env:"AUTH_CACHE_SECONDS" envDefault:"60"` // Thời gian cache token => session (0 = không cache)

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Tên cơ sở dữ liệu

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Firebase (tuỳ chọn - đăng nhập bằng Firebase ID token)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	// SMTP cho email mời nhân viên và mã xác nhận
	SMTP_Host           string `env:"SMTP_HOST"`
	SMTP_Port           int    `env:"SMTP_PORT" envDefault:"587"`
	SMTP_Username       string `env:"SMTP_USERNAME"`
	SMTP_Password       string `env:"SMTP_PASSWORD"`
	SMTP_From           string `env:"SMTP_FROM" envDefault:"no-reply@engagement.local"`
	InviteEmailsEnabled bool   `env:"INVITE_EMAILS_ENABLED" envDefault:"false"`

	// Bulk / worker
	BulkConcurrency                int `env:"BULK_CONCURRENCY" envDefault:"4"`                   // Số ghi đồng thời tối đa trong bulk (1 = tuần tự)
	AnalyticsWorkerIntervalSeconds int `env:"ANALYTICS_WORKER_INTERVAL_SECONDS" envDefault:"60"` // Chu kỳ worker analytics
	AnalyticsWorkerBatchSize       int `env:"ANALYTICS_WORKER_BATCH_SIZE" envDefault:"20"`
	AnalyticsFreshMinutes          int `env:"ANALYTICS_FRESH_MINUTES" envDefault:"10"`           // Snapshot cũ hơn thì được tính lại khi đọc

	// Super admin mặc định (tạo trong init data nếu chưa có)
	SuperAdminEmail    string `env:"SUPER_ADMIN_EMAIL"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD"`

	// TLS/HTTPS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// FindEnvDir tìm thư mục config/env bằng cách đi lên từ thư mục hiện tại
func FindEnvDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return envDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("không tìm thấy thư mục config/env")
		}
		currentDir = parentDir
	}
}

// getEnvPath trả về đường dẫn đến file env dựa trên GO_ENV (mặc định development)
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}
	envDir, err := FindEnvDir()
	if err != nil {
		return ""
	}
	return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
}

// Load đọc file env (nếu có) rồi parse biến môi trường vào Configuration.
// Biến môi trường đã set sẵn luôn được ưu tiên hơn giá trị trong file.
func Load() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if _, statErr := os.Stat(envPath); statErr == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("không thể load file env tại %s: %w", envPath, err)
			}
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("lỗi khi parse config: %w", err)
	}
	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = 1
	}
	return &cfg, nil
}

// NewConfig giữ hành vi cũ: trả về nil nếu không đọc được cấu hình
func NewConfig() *Configuration {
	cfg, err := Load()
	if err != nil {
		// Dùng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("%v\n", err)
		return nil
	}
	return cfg
}
