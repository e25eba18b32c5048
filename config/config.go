package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string
	// AdminKey authorizes token issuance for the admin/API surface.
	// When AdminKeyHash is set it takes precedence and is compared with bcrypt.
	AdminKey     string
	AdminKeyHash string
	// Chat platform settings
	BotToken        string
	GuildID         string
	DailiesChannel  string
	TeamRoleIDs     []string
	ChatAPIBaseURL  string
	SendPacingMS    int
	MemberCacheSec  int
	PromptRetention int // days of prompt records kept by the pruner
	// Scheduling
	Timezone string
	DataDir  string
	// API hardening
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for the member cache (optional)
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration from config/config.json and environment variables.
// It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Location resolves the configured timezone, falling back to UTC when invalid.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SendPacing returns the inter-recipient delay applied to outbound dispatch batches.
func (c AppConfig) SendPacing() time.Duration {
	return time.Duration(c.SendPacingMS) * time.Millisecond
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	// Grouped sections first
	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.AdminKey = getString(app, "AdminKey")
		out.AdminKeyHash = getString(app, "AdminKeyHash")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		if v := getString(app, "Timezone"); v != "" {
			out.Timezone = v
		}
		if v := getString(app, "DataDir"); v != "" {
			out.DataDir = v
		}
	}

	if bot, ok := raw["bot"].(map[string]any); ok {
		out.BotToken = getString(bot, "BotToken")
		out.GuildID = getString(bot, "GuildID")
		out.DailiesChannel = getString(bot, "DailiesChannel")
		if list := getStringSlice(bot, "TeamRoleIDs"); len(list) > 0 {
			out.TeamRoleIDs = list
		}
		if v := getString(bot, "ChatAPIBaseURL"); v != "" {
			out.ChatAPIBaseURL = v
		}
		if v := getInt(bot, "SendPacingMS"); v != 0 {
			out.SendPacingMS = v
		}
		if v := getInt(bot, "MemberCacheSec"); v != 0 {
			out.MemberCacheSec = v
		}
		if v := getInt(bot, "PromptRetention"); v != 0 {
			out.PromptRetention = v
		}
	}

	// gin section (backward compatibility)
	if g, ok := raw["gin"].(map[string]any); ok {
		if v := getString(g, "Mode"); v != "" {
			out.GinMode = v
		}
		if v := getString(g, "LogPath"); v != "" {
			out.GinPath = v
		}
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getString(lg, "GinMode"); v != "" {
			out.GinMode = v
		}
		if v := getString(lg, "GinPath"); v != "" {
			out.GinPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	// Flat keys for backward compatibility
	if v, ok := raw["AppPort"]; ok && out.AppPort == "" {
		out.AppPort, _ = v.(string)
	}
	if v, ok := raw["JWTSecret"]; ok && out.JWTSecret == "" {
		out.JWTSecret, _ = v.(string)
	}
	if v, ok := raw["AdminKey"]; ok && out.AdminKey == "" {
		out.AdminKey, _ = v.(string)
	}
	if v, ok := raw["AdminKeyHash"]; ok && out.AdminKeyHash == "" {
		out.AdminKeyHash, _ = v.(string)
	}
	if v, ok := raw["BotToken"]; ok && out.BotToken == "" {
		out.BotToken, _ = v.(string)
	}
	if v, ok := raw["GuildID"]; ok && out.GuildID == "" {
		out.GuildID, _ = v.(string)
	}
	if v, ok := raw["DailiesChannel"]; ok && out.DailiesChannel == "" {
		out.DailiesChannel, _ = v.(string)
	}
	if v, ok := raw["TeamRoleIDs"]; ok && len(out.TeamRoleIDs) == 0 {
		if arr, ok := v.([]any); ok {
			for _, it := range arr {
				if s, ok := it.(string); ok {
					out.TeamRoleIDs = append(out.TeamRoleIDs, s)
				}
			}
		}
	}
	if v, ok := raw["ChatAPIBaseURL"]; ok && out.ChatAPIBaseURL == "" {
		out.ChatAPIBaseURL, _ = v.(string)
	}
	if v, ok := raw["Timezone"]; ok && out.Timezone == "" {
		out.Timezone, _ = v.(string)
	}
	if v, ok := raw["DataDir"]; ok && out.DataDir == "" {
		out.DataDir, _ = v.(string)
	}
	if v, ok := raw["SendPacingMS"]; ok && out.SendPacingMS == 0 {
		if f, ok := v.(float64); ok {
			out.SendPacingMS = int(f)
		}
	}
	if v, ok := raw["MemberCacheSec"]; ok && out.MemberCacheSec == 0 {
		if f, ok := v.(float64); ok {
			out.MemberCacheSec = int(f)
		}
	}
	if v, ok := raw["PromptRetention"]; ok && out.PromptRetention == 0 {
		if f, ok := v.(float64); ok {
			out.PromptRetention = int(f)
		}
	}
	if v, ok := raw["RateLimitPerMinute"]; ok && out.RateLimitPerMinute == 0 {
		if f, ok := v.(float64); ok {
			out.RateLimitPerMinute = int(f)
		}
	}
	if v, ok := raw["AllowedOrigins"]; ok && len(out.AllowedOrigins) == 0 {
		if arr, ok := v.([]any); ok {
			for _, it := range arr {
				if s, ok := it.(string); ok {
					out.AllowedOrigins = append(out.AllowedOrigins, s)
				}
			}
		}
	}
	if v, ok := raw["GinMode"]; ok && out.GinMode == "" {
		out.GinMode, _ = v.(string)
	}
	if v, ok := raw["GinPath"]; ok && out.GinPath == "" {
		out.GinPath, _ = v.(string)
	}
	if v, ok := raw["RedisHost"]; ok && out.RedisHost == "" {
		out.RedisHost, _ = v.(string)
	}
	if v, ok := raw["RedisPort"]; ok && out.RedisPort == 0 {
		if f, ok := v.(float64); ok {
			out.RedisPort = int(f)
		}
	}
	if v, ok := raw["RedisDB"]; ok && out.RedisDB == 0 {
		if f, ok := v.(float64); ok {
			out.RedisDB = int(f)
		}
	}
	if v, ok := raw["RedisPassword"]; ok && out.RedisPassword == "" {
		out.RedisPassword, _ = v.(string)
	}
	if v, ok := raw["LogLevel"]; ok && out.LogLevel == "" {
		out.LogLevel, _ = v.(string)
	}
	if v, ok := raw["LogPath"]; ok && out.LogPath == "" {
		out.LogPath, _ = v.(string)
	}
	if v, ok := raw["LogMaxSizeMB"]; ok && out.LogMaxSizeMB == 0 {
		if f, ok := v.(float64); ok {
			out.LogMaxSizeMB = int(f)
		}
	}
	if v, ok := raw["LogMaxBackups"]; ok && out.LogMaxBackups == 0 {
		if f, ok := v.(float64); ok {
			out.LogMaxBackups = int(f)
		}
	}
	if v, ok := raw["LogMaxAgeDays"]; ok && out.LogMaxAgeDays == 0 {
		if f, ok := v.(float64); ok {
			out.LogMaxAgeDays = int(f)
		}
	}
	if v, ok := raw["LogCompress"]; ok {
		if b, ok := v.(bool); ok {
			out.LogCompress = b
		}
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.ChatAPIBaseURL == "" {
		c.ChatAPIBaseURL = "https://discord.com/api/v10"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Buenos_Aires"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.SendPacingMS == 0 {
		c.SendPacingMS = 500
	}
	if c.MemberCacheSec == 0 {
		c.MemberCacheSec = 60
	}
	if c.PromptRetention == 0 {
		c.PromptRetention = 7
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("ADMIN_KEY", ""); v != "" {
		c.AdminKey = v
	}
	if v := getEnv("ADMIN_KEY_HASH", ""); v != "" {
		c.AdminKeyHash = v
	}
	if v := getEnv("BOT_TOKEN", ""); v != "" {
		c.BotToken = v
	}
	if v := getEnv("GUILD_ID", ""); v != "" {
		c.GuildID = v
	}
	if v := getEnv("DAILIES_CHANNEL_ID", ""); v != "" {
		c.DailiesChannel = v
	}
	if v := getEnv("TEAM_ROLE_IDS", ""); v != "" {
		c.TeamRoleIDs = readListEnv("TEAM_ROLE_IDS", c.TeamRoleIDs)
	}
	if v := getEnv("CHAT_API_BASE_URL", ""); v != "" {
		c.ChatAPIBaseURL = v
	}
	if v := getEnv("TIMEZONE", ""); v != "" {
		c.Timezone = v
	}
	if v := getEnv("DATA_DIR", ""); v != "" {
		c.DataDir = v
	}
	if v := getEnv("SEND_PACING_MS", ""); v != "" {
		c.SendPacingMS = mustParseInt(v)
	}
	if v := getEnv("MEMBER_CACHE_SEC", ""); v != "" {
		c.MemberCacheSec = mustParseInt(v)
	}
	if v := getEnv("PROMPT_RETENTION_DAYS", ""); v != "" {
		c.PromptRetention = mustParseInt(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
