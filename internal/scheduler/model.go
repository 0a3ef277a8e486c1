package scheduler

import "github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"

// Gene: 表示一节需要安排的课
// section 和 course 在整个运行过程中固定不变，room、meetingTime、instructor 由进化过程决定
// 所有字段都是 Scheduler 内部数组的下标，而不是数据库中的 ID
type Gene struct {
	section     int
	course      int
	room        int
	meetingTime int
	instructor  int
}

// Chromosome: 一张完整的候选课表
type Chromosome struct {
	genes      []Gene
	fitness    float64
	violations int
	evaluated  bool // 为 false 时 fitness 和 violations 都不可信
}

// setAssignment 修改第 i 个基因的可变部分，同时使缓存的适应度失效
func (ch *Chromosome) setAssignment(i, room, meetingTime, instructor int) {
	ch.genes[i].room = room
	ch.genes[i].meetingTime = meetingTime
	ch.genes[i].instructor = instructor
	ch.evaluated = false
}

// clone 深拷贝染色体，基因按值复制，避免两个染色体共享同一块内存
func (ch *Chromosome) clone() *Chromosome {
	genes := make([]Gene, len(ch.genes))
	copy(genes, ch.genes)
	return &Chromosome{
		genes:      genes,
		fitness:    ch.fitness,
		violations: ch.violations,
		evaluated:  ch.evaluated,
	}
}

func (ch *Chromosome) Fitness() float64 {
	return ch.fitness
}

func (ch *Chromosome) Violations() int {
	return ch.violations
}

// ClassSpec: 一节需要排的课的固定部分
type ClassSpec struct {
	SectionID int64 `json:"sectionID"`
	CourseID  int64 `json:"courseID"`
}

// EnumeratorFunc 由目录生成需要排的课，必须是纯函数
type EnumeratorFunc func(catalog *domain.Catalog) ([]ClassSpec, error)

// 遗传算法参数
type Parameters struct {
	PopulationSize int     `validate:"min=1"`                         // 种群大小
	EliteCount     int     `validate:"min=0,ltfield=PopulationSize"`  // 精英数量
	TournamentSize int     `validate:"min=1,ltefield=PopulationSize"` // 锦标赛规模
	MutationRate   float64 `validate:"min=0,max=1"`                   // 每个基因的变异概率
	CrossoverBias  float64 `validate:"min=0,max=1"`                   // 均匀交叉时取父本 A 基因的概率
	MaxGenerations int     `validate:"min=1"`                         // 最大迭代次数
	Seed           *int64  `validate:"omitempty"`                     // 为 nil 时使用当前时间作为随机种子
	Workers        int     `validate:"min=0"`                         // 并发计算适应度的 goroutine 数量，小于等于 1 时串行计算
}

func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize: 30,
		EliteCount:     2,
		TournamentSize: 8,
		MutationRate:   0.05,
		CrossoverBias:  0.5,
		MaxGenerations: 100,
	}
}

type Termination string

const (
	TerminationConverged      Termination = "converged"
	TerminationMaxGenerations Termination = "max_generations_reached"
	TerminationCancelled      Termination = "cancelled"
)

// GenerationStats 在每一代结束后传给观察者
type GenerationStats struct {
	Generation     int
	BestFitness    float64 // 本代最优
	BestViolations int
	BestEver       float64 // 截至本代的历史最优
	PopulationSize int
}

// Result: 运行结束后的最优课表
type Result struct {
	Classes     []domain.TimetableClass `json:"classes"`
	Fitness     float64                 `json:"fitness"`
	Violations  int                     `json:"violations"`
	Conflicts   map[string]int          `json:"conflicts"` // 各类约束各自被违反的次数
	Generations int                     `json:"generations"`
	Termination Termination             `json:"termination"`
	Seed        int64                   `json:"seed"`
}

func (r *Result) Timetable() *domain.Timetable {
	classes := make([]domain.TimetableClass, len(r.Classes))
	copy(classes, r.Classes)

	return &domain.Timetable{
		Classes:     classes,
		Fitness:     r.Fitness,
		Violations:  int32(r.Violations),
		Generations: int32(r.Generations),
		Termination: string(r.Termination),
		Seed:        r.Seed,
	}
}
