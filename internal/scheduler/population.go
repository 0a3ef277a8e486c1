package scheduler

import "sort"

type population struct {
	chromosomes []*Chromosome
}

// initPopulation 随机生成 PopulationSize 个染色体，计算适应度后按适应度降序排列
func (s *Scheduler) initPopulation() *population {
	chs := make([]*Chromosome, s.parameters.PopulationSize)
	for i := range chs {
		chs[i] = s.randomInitChromosome()
	}
	s.calcFitnessAll(chs)

	pop := &population{chromosomes: chs}
	pop.sortByFitness()
	return pop
}

func (p *population) size() int {
	return len(p.chromosomes)
}

// sortByFitness 稳定排序，适应度相同时保持插入顺序，保证结果可复现
func (p *population) sortByFitness() {
	sort.SliceStable(p.chromosomes, func(i, j int) bool {
		return p.chromosomes[i].fitness > p.chromosomes[j].fitness
	})
}

// best 返回适应度最高的染色体，适应度相同时取靠前的
func (p *population) best() (*Chromosome, error) {
	if len(p.chromosomes) == 0 {
		return nil, ErrEmptyPopulation
	}

	best := p.chromosomes[0]
	for _, ch := range p.chromosomes[1:] {
		if ch.fitness > best.fitness {
			best = ch
		}
	}
	return best, nil
}
