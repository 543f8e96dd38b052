package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/config"
	"github.com/NasirNS45/momento-backend/internal/api/follow"
	"github.com/NasirNS45/momento-backend/internal/api/post"
	"github.com/NasirNS45/momento-backend/internal/api/user"
	"github.com/NasirNS45/momento-backend/internal/middleware"
	"github.com/NasirNS45/momento-backend/internal/repository/mysql"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/storage"
	"github.com/NasirNS45/momento-backend/internal/util"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", util.ValidateUsername)
	}

	// 初始化存储后端
	uploader, err := storage.NewUploader(&config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化存储后端失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	followRepo := mysql.NewFollowRepository(db)
	postRepo := mysql.NewPostRepository(db)

	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	followService := service.NewFollowService(followRepo, userRepo)
	postService := service.NewPostService(postRepo, userRepo)
	feedService := service.NewFeedService(followService, postRepo)

	authHandler := user.NewAuthHandler(userService)
	userHandler := user.NewUserHandler(userService)
	profileHandler := user.NewProfileHandler(userService, uploader)
	followHandler := follow.NewFollowHandler(followService)
	postHandler := post.NewPostHandler(postService, feedService, uploader)
	commentHandler := post.NewCommentHandler(postService)

	// 设置 Gin 路由
	r := gin.Default()
	r.Use(middleware.RecoveryMiddleware())

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 本地存储时直接提供媒体文件
	if config.AppConfig.StorageBackend == "local" || config.AppConfig.StorageBackend == "" {
		r.Static("/media", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/register", authHandler.Register)
		api.POST("/verify-otp", authHandler.VerifyOTP)
		api.POST("/login", authHandler.Login)
		api.POST("/refresh-token", authHandler.RefreshToken)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			// 用户相关
			authorized.GET("/me", userHandler.GetMe)
			authorized.GET("/users", userHandler.ListUsers)
			authorized.GET("/users/suggested", followHandler.SuggestedUsers)
			authorized.PATCH("/profile", profileHandler.UpdateProfile)

			// 关注相关
			authorized.POST("/follow", followHandler.RequestFollow)
			authorized.POST("/follow/:id/action", followHandler.ActOnFollow)

			// 帖子与信息流
			authorized.GET("/posts", postHandler.GetFeed)
			authorized.POST("/posts", postHandler.CreatePost)
			authorized.GET("/posts/:id", postHandler.GetPost)
			authorized.DELETE("/posts/:id", postHandler.DeletePost)
			authorized.POST("/posts/:id/like", postHandler.LikePost)
			authorized.GET("/posts/:id/likes", postHandler.ListPostLikes)

			// 评论相关
			authorized.POST("/posts/:id/comments", commentHandler.AddComment)
			authorized.GET("/posts/:id/comments", commentHandler.ListComments)
			authorized.GET("/comments/:id/replies", commentHandler.ListReplies)
			authorized.POST("/comments/:id/like", commentHandler.LikeComment)
			authorized.GET("/comments/:id/likes", commentHandler.ListCommentLikes)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.ServerPort,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("port", config.AppConfig.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
