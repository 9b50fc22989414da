package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/XBC-D2O/acpoke-plugin/config"
	"github.com/XBC-D2O/acpoke-plugin/internal/client/onebot"
	"github.com/XBC-D2O/acpoke-plugin/internal/client/person"
	"github.com/XBC-D2O/acpoke-plugin/internal/handler"
	"github.com/XBC-D2O/acpoke-plugin/internal/model"
	"github.com/XBC-D2O/acpoke-plugin/internal/service"
	"github.com/XBC-D2O/acpoke-plugin/internal/store"
)

func main() {
	logger := newLogger()

	// 按环境加载配置（APP_ENV=local|dev|prod）
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil && cfg.Log.Level != "" {
		logger = logger.Level(level)
	}

	ginMode := cfg.Server.Mode
	if os.Getenv("GIN_MODE") != "" {
		ginMode = os.Getenv("GIN_MODE")
	}
	gin.SetMode(ginMode)

	// 构建 OneBot 客户端（戳一戳派发 + 调试诊断输出）
	onebotClient := onebot.NewClient(onebot.Config{
		BaseURL:     cfg.OneBot.BaseURL,
		AccessToken: cfg.OneBot.AccessToken,
		Enabled:     cfg.OneBot.Enabled,
	})

	// 构建人员 API 客户端（显示名 → user_id）
	personClient := person.NewClient(person.Config{
		BaseURL: cfg.Person.BaseURL,
		Token:   cfg.Person.Token,
	})

	// 动作历史存储
	actionLog, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open action log")
	}
	defer actionLog.Close()

	// 服务层
	resolver := service.NewTargetResolver(personClient, cfg.Poke.DefaultGroupID, logger.With().Str("component", "resolver").Logger())
	pokeSvc := service.NewPokeService(resolver, onebotClient, actionLog, cfg.Poke.Debug, logger.With().Str("component", "poke").Logger())

	info := model.PluginInfo{
		Name:               cfg.Plugin.Name,
		Version:            cfg.Plugin.Version,
		Description:        cfg.Plugin.Description,
		Enabled:            cfg.Plugin.Enabled,
		ActivationKeywords: cfg.Poke.ActivationKeywords,
		ParallelAction:     false,
	}

	// 路由
	r := handler.Router(pokeSvc, info, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Str("env", getEnv()).Msg("server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("serve")
	}
}

func newLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("service", "acpoke-plugin").
		Timestamp().
		Logger()
}

func getEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		return "local"
	}
	return env
}
