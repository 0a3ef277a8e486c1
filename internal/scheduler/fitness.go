package scheduler

import (
	"github.com/sourcegraph/conc/pool"
)

const (
	ConstraintSection    = "section"
	ConstraintRoom       = "room"
	ConstraintInstructor = "instructor"
	ConstraintCapacity   = "capacity"
)

// pairConstraint 作用于同一时段内的一对基因，返回 true 表示违反约束
type pairConstraint struct {
	name     string
	violated func(a, b *Gene) bool
}

// geneConstraint 作用于单个基因
type geneConstraint struct {
	name     string
	violated func(g *Gene) bool
}

// 新增约束只需要在这里追加一个谓词
func (s *Scheduler) buildConstraints() {
	s.pairConstraints = []pairConstraint{
		{
			// 同一个教学班不能同时上两节课
			name:     ConstraintSection,
			violated: func(a, b *Gene) bool { return a.section == b.section },
		},
		{
			name:     ConstraintRoom,
			violated: func(a, b *Gene) bool { return a.room == b.room },
		},
		{
			name:     ConstraintInstructor,
			violated: func(a, b *Gene) bool { return a.instructor == b.instructor },
		},
	}

	s.geneConstraints = []geneConstraint{
		{
			// 教室座位数必须不少于课程的最大人数
			name:     ConstraintCapacity,
			violated: func(g *Gene) bool { return s.roomCapacity[g.room] < s.courseMaxStudents[g.course] },
		},
	}
}

// countViolations 统计染色体违反约束的次数
// 先按时段分桶，只有同一个桶内的基因才可能冲突，结果与两两比较完全一致
// conflicts 不为 nil 时按约束名称累加
func (s *Scheduler) countViolations(ch *Chromosome, conflicts map[string]int) int {
	violations := 0

	buckets := make([][]int, s.numMeetingTimes)
	for i := range ch.genes {
		mt := ch.genes[i].meetingTime
		buckets[mt] = append(buckets[mt], i)
	}

	for _, bucket := range buckets {
		for x := 0; x < len(bucket); x++ {
			for y := x + 1; y < len(bucket); y++ {
				a, b := &ch.genes[bucket[x]], &ch.genes[bucket[y]]
				for _, c := range s.pairConstraints {
					if c.violated(a, b) {
						violations++
						if conflicts != nil {
							conflicts[c.name]++
						}
					}
				}
			}
		}
	}

	for i := range ch.genes {
		for _, c := range s.geneConstraints {
			if c.violated(&ch.genes[i]) {
				violations++
				if conflicts != nil {
					conflicts[c.name]++
				}
			}
		}
	}

	return violations
}

/**
 * 计算染色体的适应度
 * fitness = 1 / (1 + violations)
 * 没有任何冲突时 fitness 为 1，冲突越多 fitness 越小但始终大于 0
 * 结果缓存在染色体中，直到某个基因被修改
 */
func (s *Scheduler) calcFitness(ch *Chromosome) {
	if ch.evaluated {
		return
	}

	ch.violations = s.countViolations(ch, nil)
	ch.fitness = 1 / (1 + float64(ch.violations))
	ch.evaluated = true
}

// calcFitnessAll 计算一批染色体的适应度
// 每个染色体的计算互不依赖，Workers > 1 时并发计算，结果与串行计算相同
func (s *Scheduler) calcFitnessAll(chs []*Chromosome) {
	if s.parameters.Workers <= 1 {
		for _, ch := range chs {
			s.calcFitness(ch)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(s.parameters.Workers)
	for _, ch := range chs {
		ch := ch
		p.Go(func() {
			s.calcFitness(ch)
		})
	}
	p.Wait()
}

// explain 返回每类约束被违反的次数，用于最终结果
func (s *Scheduler) explain(ch *Chromosome) map[string]int {
	conflicts := make(map[string]int, len(s.pairConstraints)+len(s.geneConstraints))
	for _, c := range s.pairConstraints {
		conflicts[c.name] = 0
	}
	for _, c := range s.geneConstraints {
		conflicts[c.name] = 0
	}

	s.countViolations(ch, conflicts)
	return conflicts
}
