package scheduler

import "errors"

var (
	// 目录中存在无法排课的数据：院系没有课程、课程没有可授课教师、没有教室或时段
	ErrEmptyCatalog = errors.New("排课数据不完整")
	// 目录中存在悬空引用或非法数值
	ErrInvalidCatalog = errors.New("排课数据非法")
	// 遗传算法参数不合法，在开始迭代前返回
	ErrInvalidParameters = errors.New("遗传算法参数非法")
	// 种群为空，正常运行时不会出现
	ErrEmptyPopulation = errors.New("种群为空")
	// 进化过程中破坏了基因约束（例如教师不在课程的可授课教师中），属于程序错误
	ErrInvariantViolated = errors.New("基因约束被破坏")
)
