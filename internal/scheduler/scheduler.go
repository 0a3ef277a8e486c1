package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Scheduler struct {
	parameters *Parameters
	catalog    *domain.Catalog // 只读，不会被修改
	logger     *slog.Logger
	observer   func(GenerationStats)
	enumerate  EnumeratorFunc
	seed       int64
	rng        *rand.Rand

	// 以下字段由 catalog 展开得到，运行期间只读
	classes           []ClassSpec
	templates         []Gene  // 只有 section 和 course 有意义
	qualified         [][]int // course -> 可授课教师的下标
	roomCapacity      []int32
	courseMaxStudents []int32
	numRooms          int
	numMeetingTimes   int

	pairConstraints []pairConstraint
	geneConstraints []geneConstraint
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithObserver 注册一个回调，在初始种群和每一代结束后调用
func WithObserver(observer func(GenerationStats)) Option {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// WithEnumerator 替换默认的 EnumerateClasses
func WithEnumerator(enumerate EnumeratorFunc) Option {
	return func(s *Scheduler) {
		s.enumerate = enumerate
	}
}

// ValidateParameters 在运行之前检查参数，错误都包装了 ErrInvalidParameters
func ValidateParameters(parameters *Parameters) error {
	if parameters == nil {
		return fmt.Errorf("%w: 参数为空", ErrInvalidParameters)
	}

	if err := validate.Struct(parameters); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return fmt.Errorf("%w: %s 不满足 %s=%s (当前值 %v)", ErrInvalidParameters, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	return nil
}

func New(parameters *Parameters, catalog *domain.Catalog, opts ...Option) (*Scheduler, error) {
	if err := ValidateParameters(parameters); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: 目录为空", ErrEmptyCatalog)
	}

	s := &Scheduler{
		parameters: parameters,
		catalog:    catalog,
		logger:     slog.Default(),
		enumerate:  EnumerateClasses,
	}
	for _, opt := range opts {
		opt(s)
	}

	if parameters.Seed != nil {
		s.seed = *parameters.Seed
	} else {
		s.seed = time.Now().UnixNano()
	}

	classes, err := s.enumerate(catalog)
	if err != nil {
		return nil, err
	}
	s.classes = classes

	if err := s.indexCatalog(); err != nil {
		return nil, err
	}
	s.buildConstraints()

	return s, nil
}

// indexCatalog 把目录中的实体展开为下标，基因中只保存下标
func (s *Scheduler) indexCatalog() error {
	instructorIndex := indexByID(s.catalog.Instructors, func(i domain.Instructor) int64 { return i.ID })
	courseIndex := indexByID(s.catalog.Courses, func(c domain.Course) int64 { return c.ID })
	sectionIndex := indexByID(s.catalog.Sections, func(sec domain.Section) int64 { return sec.ID })
	departments := lo.KeyBy(s.catalog.Departments, func(d domain.Department) int64 { return d.ID })

	s.qualified = make([][]int, len(s.catalog.Courses))
	s.courseMaxStudents = make([]int32, len(s.catalog.Courses))
	for c, course := range s.catalog.Courses {
		if len(course.InstructorIDs) == 0 {
			return fmt.Errorf("%w: 课程 %s 没有可授课的教师", ErrEmptyCatalog, course.Number)
		}

		s.qualified[c] = make([]int, 0, len(course.InstructorIDs))
		for _, instructorID := range course.InstructorIDs {
			i, exists := instructorIndex[instructorID]
			if !exists {
				return fmt.Errorf("%w: 课程 %s 的教师 %d 不存在", ErrInvalidCatalog, course.Number, instructorID)
			}
			s.qualified[c] = append(s.qualified[c], i)
		}
		s.courseMaxStudents[c] = course.MaxStudents
	}

	s.roomCapacity = lo.Map(s.catalog.Rooms, func(r domain.Room, _ int) int32 { return r.SeatingCapacity })
	s.numRooms = len(s.catalog.Rooms)
	s.numMeetingTimes = len(s.catalog.MeetingTimes)

	s.templates = make([]Gene, len(s.classes))
	for i, class := range s.classes {
		sec, exists := sectionIndex[class.SectionID]
		if !exists {
			return fmt.Errorf("%w: 教学班 %d 不存在", ErrInvalidCatalog, class.SectionID)
		}
		c, exists := courseIndex[class.CourseID]
		if !exists {
			return fmt.Errorf("%w: 课程 %d 不存在", ErrInvalidCatalog, class.CourseID)
		}

		// 课程必须属于教学班所在院系
		section := s.catalog.Sections[sec]
		if !lo.Contains(departments[section.DepartmentID].CourseIDs, class.CourseID) {
			return fmt.Errorf("%w: 课程 %s 不属于教学班 %s 所在的院系", ErrInvalidCatalog, s.catalog.Courses[c].Number, section.Code)
		}

		s.templates[i] = Gene{section: sec, course: c}
	}

	if len(s.templates) > 0 && (s.numRooms == 0 || s.numMeetingTimes == 0) {
		return fmt.Errorf("%w: 有 %d 节课需要安排，但没有可用的教室或时段", ErrEmptyCatalog, len(s.templates))
	}

	return nil
}

// Classes 返回需要排的课，顺序与染色体中的基因一致
func (s *Scheduler) Classes() []ClassSpec {
	return s.classes
}

func (s *Scheduler) Seed() int64 {
	return s.seed
}

// Schedule 运行遗传算法，返回历史上适应度最高的课表
// ctx 只在两代之间检查，被取消时返回当前最优结果以及 ctx.Err()
func (s *Scheduler) Schedule(ctx context.Context) (*Result, error) {
	// 每次运行都从同一个种子开始，相同的输入得到相同的结果
	s.rng = rand.New(rand.NewSource(s.seed))

	// 生成初始种群
	pop := s.initPopulation()
	genBest, err := pop.best()
	if err != nil {
		return nil, err
	}
	bestChromosomeEver := genBest.clone()
	s.report(0, pop, genBest, bestChromosomeEver)

	if genBest.fitness == 1 {
		return s.finish(bestChromosomeEver, 0, TerminationConverged)
	}

	// 迭代
	for gen := 1; gen <= s.parameters.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			result, finishErr := s.finish(bestChromosomeEver, gen-1, TerminationCancelled)
			if finishErr != nil {
				return nil, finishErr
			}
			return result, err
		}

		pop, bestChromosomeEver, err = s.evolve(pop, bestChromosomeEver)
		if err != nil {
			return nil, err
		}

		genBest, err = pop.best()
		if err != nil {
			return nil, err
		}
		s.report(gen, pop, genBest, bestChromosomeEver)

		if genBest.fitness == 1 {
			return s.finish(bestChromosomeEver, gen, TerminationConverged)
		}
	}

	return s.finish(bestChromosomeEver, s.parameters.MaxGenerations, TerminationMaxGenerations)
}

// evolve 由当前种群繁殖出下一代，返回新种群和更新后的历史最优
// pop 必须已经按适应度降序排列，且在整个过程中不会被修改
func (s *Scheduler) evolve(pop *population, bestChromosomeEver *Chromosome) (*population, *Chromosome, error) {
	size := s.parameters.PopulationSize
	next := make([]*Chromosome, 0, size)

	// 保留精英
	for _, elite := range pop.chromosomes[:s.parameters.EliteCount] {
		next = append(next, elite.clone())
	}

	// 繁殖
	children := make([]*Chromosome, 0, size-len(next))
	for len(next)+len(children) < size {
		p1 := s.selectByTournament(pop)
		p2 := s.selectByTournament(pop)

		child := s.uniformCrossover(p1, p2)
		s.mutate(child)

		children = append(children, child)
	}
	s.calcFitnessAll(children)
	next = append(next, children...)

	newPop := &population{chromosomes: next}
	newPop.sortByFitness()

	genBest, err := newPop.best()
	if err != nil {
		return nil, nil, err
	}
	if genBest.fitness > bestChromosomeEver.fitness {
		// 深拷贝，防止之后的繁殖修改到历史最优
		bestChromosomeEver = genBest.clone()
	}

	return newPop, bestChromosomeEver, nil
}

func (s *Scheduler) report(gen int, pop *population, genBest *Chromosome, bestChromosomeEver *Chromosome) {
	s.logger.Debug("完成一代进化",
		"generation", gen,
		"bestFitness", genBest.fitness,
		"bestViolations", genBest.violations,
		"bestEver", bestChromosomeEver.fitness,
	)

	if s.observer != nil {
		s.observer(GenerationStats{
			Generation:     gen,
			BestFitness:    genBest.fitness,
			BestViolations: genBest.violations,
			BestEver:       bestChromosomeEver.fitness,
			PopulationSize: pop.size(),
		})
	}
}

// finish 校验最优染色体并转换为结果
func (s *Scheduler) finish(best *Chromosome, generations int, termination Termination) (*Result, error) {
	// 理论上不会出现，出现说明交叉或变异的实现有问题
	if err := s.checkInvariants(best); err != nil {
		return nil, err
	}

	classes := make([]domain.TimetableClass, len(best.genes))
	for i, gene := range best.genes {
		classes[i] = domain.TimetableClass{
			SectionID:     s.catalog.Sections[gene.section].ID,
			CourseID:      s.catalog.Courses[gene.course].ID,
			RoomID:        s.catalog.Rooms[gene.room].ID,
			MeetingTimeID: s.catalog.MeetingTimes[gene.meetingTime].ID,
			InstructorID:  s.catalog.Instructors[gene.instructor].ID,
		}
	}

	s.logger.Info("排课完成",
		"termination", termination,
		"generations", generations,
		"fitness", best.fitness,
		"violations", best.violations,
	)

	return &Result{
		Classes:     classes,
		Fitness:     best.fitness,
		Violations:  best.violations,
		Conflicts:   s.explain(best),
		Generations: generations,
		Termination: termination,
		Seed:        s.seed,
	}, nil
}

func indexByID[T any](items []T, id func(T) int64) map[int64]int {
	index := make(map[int64]int, len(items))
	for i, item := range items {
		index[id(item)] = i
	}
	return index
}
