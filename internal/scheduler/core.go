package scheduler

import (
	"fmt"

	"github.com/samber/lo"
)

// drawAssignment 为某门课随机抽取时段、教室和教师
// 教师只会从这门课的可授课教师中抽取
func (s *Scheduler) drawAssignment(course int) (room, meetingTime, instructor int) {
	meetingTime = s.rng.Intn(s.numMeetingTimes)
	room = s.rng.Intn(s.numRooms)
	qualified := s.qualified[course]
	instructor = qualified[s.rng.Intn(len(qualified))]
	return room, meetingTime, instructor
}

// randomInitChromosome 随机初始化一个染色体，适应度留到之后统一计算
func (s *Scheduler) randomInitChromosome() *Chromosome {
	ch := &Chromosome{
		genes: make([]Gene, len(s.templates)),
	}
	copy(ch.genes, s.templates)

	for i := range ch.genes {
		room, meetingTime, instructor := s.drawAssignment(ch.genes[i].course)
		ch.setAssignment(i, room, meetingTime, instructor)
	}

	return ch
}

// 锦标赛选择
// 从种群中不放回地随机抽取 TournamentSize 个染色体，返回其中适应度最高的，适应度相同时取先抽到的
func (s *Scheduler) selectByTournament(pop *population) *Chromosome {
	n := pop.size()
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}

	var winner *Chromosome
	for i := 0; i < s.parameters.TournamentSize; i++ {
		// 部分 Fisher-Yates 洗牌，保证同一轮中不会重复抽到同一个染色体
		j := i + s.rng.Intn(n-i)
		indexes[i], indexes[j] = indexes[j], indexes[i]

		candidate := pop.chromosomes[indexes[i]]
		if winner == nil || candidate.fitness > winner.fitness {
			winner = candidate
		}
	}

	return winner
}

// 均匀交叉
// 子代的每个基因独立地以 CrossoverBias 的概率来自父本 a，否则来自父本 b
// 基因整体复制，不会把两个父本的时段、教室、教师混在同一个基因里
func (s *Scheduler) uniformCrossover(a *Chromosome, b *Chromosome) *Chromosome {
	child := &Chromosome{
		genes: make([]Gene, len(a.genes)),
	}

	for i := range child.genes {
		if s.rng.Float64() < s.parameters.CrossoverBias {
			child.genes[i] = a.genes[i]
		} else {
			child.genes[i] = b.genes[i]
		}
	}

	return child
}

// 变异
// 每个基因都有 MutationRate 的概率被重新随机抽取时段、教室和教师
func (s *Scheduler) mutate(ch *Chromosome) {
	for i := range ch.genes {
		if s.rng.Float64() >= s.parameters.MutationRate {
			continue
		}

		room, meetingTime, instructor := s.drawAssignment(ch.genes[i].course)
		ch.setAssignment(i, room, meetingTime, instructor)
	}
}

// checkInvariants 检查染色体是否仍然满足基因约束
// 固定部分必须与模板一致，教师必须在课程的可授课教师中
func (s *Scheduler) checkInvariants(ch *Chromosome) error {
	if len(ch.genes) != len(s.templates) {
		return fmt.Errorf("%w: 染色体长度为 %d，应为 %d", ErrInvariantViolated, len(ch.genes), len(s.templates))
	}

	for i, gene := range ch.genes {
		if gene.section != s.templates[i].section || gene.course != s.templates[i].course {
			return fmt.Errorf("%w: 第 %d 个基因的教学班或课程被修改", ErrInvariantViolated, i)
		}
		if !lo.Contains(s.qualified[gene.course], gene.instructor) {
			return fmt.Errorf("%w: 第 %d 个基因的教师 %d 无法讲授课程 %s",
				ErrInvariantViolated, i, s.catalog.Instructors[gene.instructor].ID, s.catalog.Courses[gene.course].Number)
		}
		if gene.room < 0 || gene.room >= s.numRooms || gene.meetingTime < 0 || gene.meetingTime >= s.numMeetingTimes {
			return fmt.Errorf("%w: 第 %d 个基因的教室或时段越界", ErrInvariantViolated, i)
		}
	}

	return nil
}
