package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var file string
	var randomSeed int64

	opts := utils.DefaultRandomCatalogOptions()

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 写入示例目录, 2: 写入随机目录, 3: 从文件写入目录)")
	flag.StringVar(&file, "file", "", "目录文件路径 (op=3)")
	flag.Int64Var(&randomSeed, "seed", time.Now().UnixNano(), "随机目录的种子 (op=2)")
	flag.IntVar(&opts.Departments, "departments", opts.Departments, "随机目录的院系数量")
	flag.IntVar(&opts.CoursesPerDept, "courses-per-dept", opts.CoursesPerDept, "每个院系的课程数量")
	flag.IntVar(&opts.Instructors, "instructors", opts.Instructors, "教师数量")
	flag.IntVar(&opts.Rooms, "rooms", opts.Rooms, "教室数量")
	flag.IntVar(&opts.Days, "days", opts.Days, "每周上课天数")
	flag.IntVar(&opts.SlotsPerDay, "slots-per-day", opts.SlotsPerDay, "每天的时段数")
	flag.IntVar(&opts.SectionsPerDept, "sections-per-dept", opts.SectionsPerDept, "每个院系的教学班数量")
	flag.IntVar(&opts.ClassesPerSection, "classes-per-section", opts.ClassesPerSection, "每个教学班每周的课时数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		seed.SeedSampleCatalog(repo)
	case 2:
		slog.Info("使用随机种子", slog.Int64("seed", randomSeed))
		seed.SeedRandomCatalog(repo, randomSeed, opts)
	case 3:
		if file == "" {
			slog.Error("请指定目录文件路径")
			return
		}
		seed.SeedCatalogFile(repo, file)
	default:
		slog.Error("指定的操作非法")
	}
}
