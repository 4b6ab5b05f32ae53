package trainer

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/hyperjump/fakenews/internal/models"
)

// Split partitions articles into train and test sets, stratified by label.
// Each class is shuffled with a PCG source seeded by seed and round(testSize × n)
// of its rows go to test, keeping at least one row of every class in train.
// Both partitions keep the corpus order. The same inputs always give the same split.
func Split(articles []models.Article, testSize float64, seed uint64) (train, test []models.Article) {
	byLabel := make(map[models.Label][]int)
	var order []models.Label
	for i, a := range articles {
		if _, ok := byLabel[a.Label]; !ok {
			order = append(order, a.Label)
		}
		byLabel[a.Label] = append(byLabel[a.Label], i)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	rng := rand.New(rand.NewPCG(seed, seed))
	inTest := make([]bool, len(articles))
	for _, label := range order {
		idx := byLabel[label]
		n := len(idx)
		nTest := int(math.Round(testSize * float64(n)))
		if nTest > n-1 {
			nTest = n - 1
		}
		if nTest < 0 {
			nTest = 0
		}
		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, i := range shuffled[:nTest] {
			inTest[i] = true
		}
	}

	for i, a := range articles {
		if inTest[i] {
			test = append(test, a)
		} else {
			train = append(train, a)
		}
	}
	return train, test
}

func texts(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.CombinedText
	}
	return out
}

func labels(articles []models.Article) []models.Label {
	out := make([]models.Label, len(articles))
	for i, a := range articles {
		out[i] = a.Label
	}
	return out
}
