package utils_test

import (
	"strconv"
	"testing"

	"github.com/opst/voipinv/pkg/cmp"
	"github.com/opst/voipinv/pkg/utils"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element in order", func(t *testing.T) {
		called := 0
		got := utils.Map([]int64{3, 5, 7}, func(v int64) string {
			called += 1
			return strconv.FormatInt(v*2, 10)
		})
		if called != 3 {
			t.Errorf("mapper is called %d times", called)
		}
		if want := []string{"6", "10", "14"}; !cmp.SliceEq(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("it returns empty slice for nil", func(t *testing.T) {
		got := utils.Map(nil, func(v int) int { return v })
		if got == nil || len(got) != 0 {
			t.Errorf("got %#v", got)
		}
	})
}
