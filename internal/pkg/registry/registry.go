package registry

import (
	"context"
	"sort"

	"course_platform/internal/pkg/config"
	"course_platform/internal/pkg/push"
	"course_platform/internal/pkg/worker"
	"course_platform/pkg/cache"
	"course_platform/pkg/database"
	"course_platform/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BackgroundJob 随进程运行的后台任务，ctx 取消时退出
type BackgroundJob struct {
	Name string
	Run  func(ctx context.Context)
}

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB        *gorm.DB
	TxManager *database.TransactionManager
	Cache     cache.CacheService
	Router    *gin.Engine
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.MetricsCollector
	Workers   *worker.WorkerPool
	Pusher    push.Pusher

	jobs []BackgroundJob
}

// AddJob 注册后台任务，由 main 统一启动
func (c *ModuleContext) AddJob(name string, run func(ctx context.Context)) {
	c.jobs = append(c.jobs, BackgroundJob{Name: name, Run: run})
}

// Jobs 已注册的后台任务
func (c *ModuleContext) Jobs() []BackgroundJob {
	return c.jobs
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() == modules[j].Priority() {
			return modules[i].Name() < modules[j].Name()
		}
		return modules[i].Priority() < modules[j].Priority()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
		if ctx.Logger != nil {
			ctx.Logger.Info("module initialized", zap.String("module", module.Name()))
		}
	}

	return nil
}
