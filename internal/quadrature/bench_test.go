// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"math"
	"strconv"
	"testing"
)

func BenchmarkMethods(b *testing.B) {
	sizes := []int64{1200, 120000}
	for _, m := range Methods(newRand(7)) {
		for _, n := range sizes {
			r := req(math.Sin, 0, math.Pi, n)
			b.Run(m.Name+"/"+strconv.FormatInt(n, 10), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_, _ = m.Integrate(r)
				}
			})
		}
	}
}
