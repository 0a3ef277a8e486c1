package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

// DecodeCatalog 从 JSON 中解析目录
// 字段名与 domain.Catalog 的 json 标签一致，数字可以写成字符串（例如 "maxStudents": "45"），出现未知字段时报错
func DecodeCatalog(r io.Reader) (*domain.Catalog, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("目录不是合法的 JSON: %w", err)
	}

	catalog := &domain.Catalog{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           catalog,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("目录格式错误: %w", err)
	}

	return catalog, nil
}

// LoadCatalogFile 读取并校验目录文件
func LoadCatalogFile(path string) (*domain.Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	catalog, err := DecodeCatalog(file)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	return catalog, nil
}

func SeedSampleCatalog(r *repository.Repository) {
	replaceCatalog(r, SampleCatalog())
}

func SeedRandomCatalog(r *repository.Repository, seed int64, opts utils.RandomCatalogOptions) {
	catalog, err := utils.GenerateRandomCatalog(rand.New(rand.NewSource(seed)), opts)
	if err != nil {
		slog.Error("无法生成随机目录", "error", err)
		return
	}
	replaceCatalog(r, catalog)
}

func SeedCatalogFile(r *repository.Repository, path string) {
	catalog, err := LoadCatalogFile(path)
	if err != nil {
		slog.Error("无法读取目录文件", "path", path, "error", err)
		return
	}
	replaceCatalog(r, catalog)
}

func replaceCatalog(r *repository.Repository, catalog *domain.Catalog) {
	if err := r.ReplaceCatalog(catalog); err != nil {
		slog.Error("无法写入目录", "error", err)
		return
	}

	slog.Info("写入目录成功",
		"instructors", len(catalog.Instructors),
		"rooms", len(catalog.Rooms),
		"meetingTimes", len(catalog.MeetingTimes),
		"courses", len(catalog.Courses),
		"departments", len(catalog.Departments),
		"sections", len(catalog.Sections),
	)
}
