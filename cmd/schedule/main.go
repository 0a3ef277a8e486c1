package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"
)

// 离线排课：不依赖数据库和消息队列，结果以 JSON 输出到标准输出
func main() {
	var file string
	var randomSeed int64
	var verbose bool

	params := scheduler.DefaultParameters()

	flag.StringVar(&file, "file", "", "目录文件路径，为空时使用内置的示例目录")
	flag.Int64Var(&randomSeed, "seed", 0, "随机种子，为 0 时使用当前时间")
	flag.IntVar(&params.PopulationSize, "population", params.PopulationSize, "种群大小")
	flag.IntVar(&params.EliteCount, "elite", params.EliteCount, "精英数量")
	flag.IntVar(&params.TournamentSize, "tournament", params.TournamentSize, "锦标赛规模")
	flag.Float64Var(&params.MutationRate, "mutation", params.MutationRate, "变异概率")
	flag.Float64Var(&params.CrossoverBias, "bias", params.CrossoverBias, "均匀交叉时取父本 A 基因的概率")
	flag.IntVar(&params.MaxGenerations, "generations", params.MaxGenerations, "最大迭代次数")
	flag.IntVar(&params.Workers, "workers", params.Workers, "并发计算适应度的 goroutine 数量")
	flag.BoolVar(&verbose, "verbose", false, "输出每一代的进化信息")
	flag.Parse()

	// 日志写到标准错误，避免和结果混在一起
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if randomSeed != 0 {
		params.Seed = &randomSeed
	}

	var catalog *domain.Catalog
	if file == "" {
		catalog = seed.SampleCatalog()
	} else {
		var err error
		catalog, err = seed.LoadCatalogFile(file)
		if err != nil {
			logger.Error("无法读取目录文件", "path", file, "error", err)
			os.Exit(1)
		}
	}

	s, err := scheduler.New(params, catalog, scheduler.WithLogger(logger))
	if err != nil {
		logger.Error("无法创建排课器", "error", err)
		os.Exit(1)
	}
	logger.Info("开始排课", "classes", len(s.Classes()), "seed", s.Seed())

	// Ctrl+C 时停止迭代并输出当前最优结果
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := s.Schedule(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("排课失败", "error", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}
}
