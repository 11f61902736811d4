// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package engine_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/modcore/internal/bootstrap"
	"github.com/holomush/modcore/internal/entity"
	"github.com/holomush/modcore/internal/modifier"
	"github.com/holomush/modcore/internal/value"
)

const catalogYAML = `
types:
  id: -1
  name: Root
  children:
    - id: 1
      name: Creature
      children:
        - id: 2
          name: Humanoid
        - id: 3
          name: Beast
          children:
            - id: 4
              name: Wolf
    - id: 10
      name: Spell

modifiers:
  - id: 1
    name: Burning
    duration: 10
    type: 10
    impact:
      health: -2
    targets: [Creature]
    criteria:
      - 'tags != "fireproof"'
    falloff: linear
    tags: [fire]
    maxStacks: 3

  - id: 2
    name: Rally
    duration: -1
    impact:
      morale: 5
    criteria:
      - type of Humanoid AND health > 50%
    falloff: none

  - id: 3
    name: Howl
    duration: 4
    impact:
      morale: -3
    targets: [Creature.Beast]
    falloff: none
`

var _ = Describe("Catalog driven engine", func() {
	var (
		cats  *bootstrap.Catalogs
		eng   *entity.Engine
		arena *entity.Arena

		knight, mage, wolf, salamander *entity.Entity
	)

	BeforeEach(func() {
		var err error
		cats, err = bootstrap.Load([]byte(catalogYAML))
		Expect(err).NotTo(HaveOccurred())
		eng = cats.Engine()

		knight = entity.New(1, 2, "knight")
		knight.SetStat("health", value.New(80, 0, 100))
		mage = entity.New(2, 2, "mage", "scholar")
		mage.SetStat("health", value.New(20, 0, 100))
		wolf = entity.New(3, 4, "wolf")
		wolf.SetStat("health", value.New(30, 0, 30))
		salamander = entity.New(4, 3, "salamander", "fireproof")

		arena = entity.NewArena()
		Expect(arena.Add(knight, mage, wolf, salamander)).To(Succeed())
	})

	It("verifies the catalog", func() {
		Expect(cats.Verify(eng.Criteria)).To(BeEmpty())
	})

	Describe("Query", func() {
		It("selects modifier targets by type path and criteria", func() {
			got, err := eng.Query(arena.All(), entity.ModifierRef(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]*entity.Entity{knight, mage, wolf}))

			got, err = eng.Query(arena.All(), entity.ModifierRef(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]*entity.Entity{knight}))
		})

		It("selects descendants through a dotted type path", func() {
			got, err := eng.Query(arena.All(), entity.ModifierRef(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(ConsistOf(wolf, salamander))
		})

		It("unions selectors without duplicates", func() {
			got, err := eng.Query(arena.All(),
				entity.Rule{Criteria: []string{`tags = "scholar"`}},
				entity.Rule{Criteria: []string{"type is 2"}},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]*entity.Entity{knight, mage}))
		})

		It("surfaces criteria compile errors", func() {
			_, err := eng.Query(arena.All(), entity.Rule{Criteria: []string{"health >"}})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Effects over time", func() {
		It("stacks burning up to its limit and decays it", func() {
			for i := range 3 {
				app, err := eng.AddEffect(wolf, 1, 0, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(app.Outcome).To(Equal(entity.Applied), "stack %d", i+1)
			}

			app, err := eng.AddEffect(wolf, 1, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(app.Outcome).To(Equal(entity.RefusedStackLimit))

			health := func(degree float64) float64 {
				v, ok := wolf.At(degree).Stat("health")
				Expect(ok).To(BeTrue())
				return v.Amount()
			}
			Expect(health(0)).To(BeNumerically("==", 24))
			Expect(health(5)).To(BeNumerically("==", 27))
			Expect(health(10)).To(BeNumerically("==", 30))

			Expect(wolf.PruneExpired(10)).To(Equal(3))
			Expect(wolf.Effects()).To(BeEmpty())
		})

		It("refuses effects whose criteria reject the target", func() {
			app, err := eng.AddEffect(salamander, 1, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(app.Outcome).To(Equal(entity.RefusedTarget))

			app, err = eng.AddEffect(mage, 2, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(app.Outcome).To(Equal(entity.RefusedTarget), "health is below half")
		})

		It("lets adjustments widen the stack limit and extend the duration", func() {
			adj := &modifier.Adjustments{Add: &modifier.Adjustment{
				Duration:  ptr(10.0),
				MaxStacks: ptr(1),
			}}
			for range 4 {
				app, err := eng.AddEffect(knight, 1, 0, adj)
				Expect(err).NotTo(HaveOccurred())
				Expect(app.IsApplied()).To(BeTrue())
				Expect(app.Effect.EndsAt()).To(BeNumerically("==", 20))
			}
		})

		It("keeps infinite effects forever", func() {
			app, err := eng.AddEffect(knight, 2, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(app.IsApplied()).To(BeTrue())

			morale, ok := knight.At(1e6).Stat("morale")
			Expect(ok).To(BeTrue())
			Expect(morale.Amount()).To(BeNumerically("==", 5))
			Expect(knight.PruneExpired(1e6)).To(BeZero())
		})
	})

	It("filters an entity's focus", func() {
		Expect(knight.AddFocus(wolf.ID())).To(BeTrue())
		Expect(knight.AddFocus(mage.ID())).To(BeTrue())
		Expect(knight.AddFocus(99)).To(BeTrue())

		got, err := eng.FilterFocus(knight, arena, entity.ModifierRef(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]*entity.Entity{wolf}))
	})

	It("round-trips entities with effects through JSON", func() {
		_, err := eng.AddEffect(knight, 1, 2, nil)
		Expect(err).NotTo(HaveOccurred())

		data, err := knight.MarshalJSON()
		Expect(err).NotTo(HaveOccurred())

		restored, err := entity.Decode(data, cats.Modifiers)
		Expect(err).NotTo(HaveOccurred())
		Expect(restored.Stats(7)).To(Equal(knight.Stats(7)))
		Expect(restored.Effects()).To(HaveLen(1))
	})

	It("serves concurrent queries from a shared engine", func() {
		const goroutines = 32
		var wg sync.WaitGroup
		results := make([]int, goroutines)

		for i := range goroutines {
			wg.Add(1)
			go func(idx int) {
				defer GinkgoRecover()
				defer wg.Done()
				got, err := eng.Query(arena.All(), entity.ModifierRef(1), entity.ModifierRef(3))
				Expect(err).NotTo(HaveOccurred())
				results[idx] = len(got)
			}(i)
		}
		wg.Wait()

		for _, n := range results {
			Expect(n).To(Equal(4))
		}
	})
})

func ptr[T any](v T) *T { return &v }
