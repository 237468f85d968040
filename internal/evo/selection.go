package evo

import (
	"errors"
	"math/rand"

	"dendros/pkg/gene"
)

// TournamentSelector picks parents by sampling Size population indices
// uniformly at random with replacement and ranking the samples by ascending
// fitness. Ties keep the earlier-drawn sample.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

// PickParents returns the best two sampled individuals. With Size 1 both
// parents are the single sample.
func (s TournamentSelector) PickParents(rng *rand.Rand, population []gene.Individual, scores []float64) (gene.Individual, gene.Individual, error) {
	if rng == nil {
		return gene.Individual{}, gene.Individual{}, ErrNoRand
	}
	if len(population) == 0 {
		return gene.Individual{}, gene.Individual{}, errors.New("population is empty")
	}
	if len(scores) != len(population) {
		return gene.Individual{}, gene.Individual{}, errors.New("scores do not match population")
	}
	size := s.Size
	if size <= 0 {
		size = 3
	}

	first, second := -1, -1
	for i := 0; i < size; i++ {
		idx := rng.Intn(len(population))
		switch {
		case first < 0 || scores[idx] < scores[first]:
			first, second = idx, first
		case second < 0 || scores[idx] < scores[second]:
			second = idx
		}
	}
	if second < 0 {
		second = first
	}
	return population[first], population[second], nil
}
