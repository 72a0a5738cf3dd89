package models_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
)

var _ = Describe("Model", func() {
	base := models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2, Mu: 0.01}

	Describe("construction", func() {
		DescribeTable("rejects negative rates",
			func(kind models.Kind, p models.Params) {
				_, err := models.New(kind, p)
				Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
			},
			Entry("beta", models.SIR, models.Params{Beta: -0.1, Gamma: 0.1}),
			Entry("gamma", models.SIR, models.Params{Beta: 0.3, Gamma: -0.1}),
			Entry("sigma", models.SEIR, models.Params{Beta: 0.3, Gamma: 0.1, Sigma: -0.2}),
			Entry("mu", models.SIRDemography, models.Params{Beta: 0.3, Gamma: 0.1, Mu: -0.01}),
			Entry("mu on seir", models.SEIRDemography, models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2, Mu: -0.01}),
			Entry("nu", models.SIR, models.Params{Beta: 0.3, Gamma: 0.1, Nu: -1}),
			Entry("NaN beta", models.SEIR, models.Params{Beta: math.NaN(), Gamma: 0.1}),
			Entry("infinite gamma", models.SIR, models.Params{Beta: 0.3, Gamma: math.Inf(1)}),
		)

		It("rejects unknown kinds and couplings", func() {
			_, err := models.New(models.Kind(42), base)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))

			_, err = models.New(models.SIR, base, models.WithCoupling(models.Coupling(7)))
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})

		It("accepts zero rates", func() {
			m, err := models.New(models.SEIRDemography, models.Params{})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Derive(dynamo.State{1, 0, 0, 0}, 0)).To(Equal(dynamo.State{0, 0, 0, 0}))
		})

		It("reports compartments and indices", func() {
			sir, _ := models.New(models.SIR, base)
			Expect(sir.StateDim()).To(Equal(3))
			Expect(sir.Compartments()).To(Equal([]string{"S", "I", "R"}))
			Expect(sir.InfectedIndex()).To(Equal(sir.Index("I")))
			Expect(sir.RecoveredIndex()).To(Equal(2))
			Expect(sir.Index("E")).To(Equal(-1))

			seir, _ := models.New(models.SEIRDemography, base)
			Expect(seir.StateDim()).To(Equal(4))
			Expect(seir.Index("E")).To(Equal(1))
			Expect(seir.InfectedIndex()).To(Equal(2))
			Expect(seir.RecoveredIndex()).To(Equal(3))
		})
	})

	Describe("right-hand sides", func() {
		x3 := dynamo.State{0.6, 0.3, 0.1}
		x4 := dynamo.State{0.5, 0.2, 0.2, 0.1}

		It("evaluates SIR", func() {
			m, _ := models.New(models.SIR, base)
			dx := m.Derive(x3, 0)
			Expect(dx[0]).To(BeNumerically("~", -0.3*0.6*0.3, 1e-15))
			Expect(dx[1]).To(BeNumerically("~", 0.3*0.6*0.3-0.1*0.3, 1e-15))
			Expect(dx[2]).To(BeNumerically("~", 0.1*0.3, 1e-15))
		})

		It("evaluates SIR with demography", func() {
			m, _ := models.New(models.SIRDemography, base)
			dx := m.Derive(x3, 0)
			Expect(dx[0]).To(BeNumerically("~", 0.01-0.3*0.6*0.3-0.01*0.6, 1e-15))
			Expect(dx[1]).To(BeNumerically("~", 0.3*0.6*0.3-0.1*0.3-0.01*0.3, 1e-15))
			Expect(dx[2]).To(BeNumerically("~", 0.1*0.3-0.01*0.1, 1e-15))
		})

		It("evaluates SEIR", func() {
			m, _ := models.New(models.SEIR, base)
			dx := m.Derive(x4, 0)
			Expect(dx[0]).To(BeNumerically("~", -0.3*0.5*0.2, 1e-15))
			Expect(dx[1]).To(BeNumerically("~", 0.3*0.5*0.2-0.2*0.2, 1e-15))
			Expect(dx[2]).To(BeNumerically("~", 0.2*0.2-0.1*0.2, 1e-15))
			Expect(dx[3]).To(BeNumerically("~", 0.1*0.2, 1e-15))
		})

		It("evaluates SEIR with demography", func() {
			m, _ := models.New(models.SEIRDemography, base)
			dx := m.Derive(x4, 0)
			Expect(dx[0]).To(BeNumerically("~", 0.01-0.3*0.5*0.2-0.01*0.5, 1e-15))
			Expect(dx[1]).To(BeNumerically("~", 0.3*0.5*0.2-0.2*0.2-0.01*0.2, 1e-15))
			Expect(dx[2]).To(BeNumerically("~", 0.2*0.2-0.1*0.2-0.01*0.2, 1e-15))
			Expect(dx[3]).To(BeNumerically("~", 0.1*0.2-0.01*0.1, 1e-15))
		})

		It("moves vaccinated susceptibles straight to R", func() {
			p := base
			p.Nu = 0.05
			m, _ := models.New(models.SIR, p)
			plain, _ := models.New(models.SIR, base)

			dx := m.Derive(x3, 0)
			ref := plain.Derive(x3, 0)
			Expect(dx[0]).To(BeNumerically("~", ref[0]-0.05*0.6, 1e-15))
			Expect(dx[1]).To(BeNumerically("~", ref[1], 1e-15))
			Expect(dx[2]).To(BeNumerically("~", ref[2]+0.05*0.6, 1e-15))
		})

		It("scales the infection term by N under frequency coupling", func() {
			counts := dynamo.State{999, 1, 0}
			fractions := dynamo.State{0.999, 0.001, 0}

			freq, _ := models.New(models.SIR, base, models.WithCoupling(models.Frequency))
			dens, _ := models.New(models.SIR, base)

			dc := freq.Derive(counts, 0)
			df := dens.Derive(fractions, 0)
			for k := range dc {
				Expect(dc[k] / 1000).To(BeNumerically("~", df[k], 1e-15))
			}

			// the two conventions diverge once N drifts from 1
			Expect(dens.Derive(counts, 0)[1]).NotTo(BeNumerically("~", dc[1], 1))
		})

		It("keeps head counts constant under frequency demography", func() {
			m, _ := models.New(models.SEIRDemography, base, models.WithCoupling(models.Frequency))
			dx := m.Derive(dynamo.State{800, 50, 100, 50}, 0)
			Expect(dx.Sum()).To(BeNumerically("~", 0, 1e-12))
		})

		It("returns nil for a state of the wrong width", func() {
			m, _ := models.New(models.SEIR, base)
			Expect(m.Derive(dynamo.State{1, 0, 0}, 0)).To(BeNil())
		})
	})

	Describe("R0", func() {
		It("is beta/gamma without demography", func() {
			m, _ := models.New(models.SIR, base)
			Expect(m.R0()).To(BeNumerically("~", 3.0, 1e-12))

			seir, _ := models.New(models.SEIR, base)
			Expect(seir.R0()).To(BeNumerically("~", 3.0, 1e-12))
		})

		It("is beta/(gamma+mu) with demography", func() {
			m, _ := models.New(models.SIRDemography, base)
			Expect(m.R0()).To(BeNumerically("~", 0.3/0.11, 1e-12))
			Expect(models.ReproductionNumber(0.3, 0.1, 0.01)).To(Equal(m.R0()))
		})
	})

	Describe("With", func() {
		It("returns a new model and leaves the original alone", func() {
			m, _ := models.New(models.SIR, base)
			m2, err := m.With("beta", 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(m2.Params().Beta).To(Equal(0.5))
			Expect(m.Params().Beta).To(Equal(0.3))
			Expect(m2.GetParams()["beta"]).To(Equal(0.5))
		})

		It("validates the replacement", func() {
			m, _ := models.New(models.SIR, base)
			_, err := m.With("gamma", -1)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
			_, err = m.With("delta", 1)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})

	Describe("parsing", func() {
		It("maps names and the demography toggle", func() {
			k, err := models.ParseKind("SEIR", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(k).To(Equal(models.SEIRDemography))

			k, _ = models.ParseKind("sir", false)
			Expect(k).To(Equal(models.SIR))
			Expect(k.String()).To(Equal("sir"))

			_, err = models.ParseKind("sis", false)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))

			c, err := models.ParseCoupling("frequency")
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(models.Frequency))

			_, err = models.ParseCoupling("mass-action")
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})
})

var _ = Describe("Conservation", func() {
	grid, _ := integrators.UniformGrid(0, 160, 0.1)

	expectConserved := func(traj dynamo.Trajectory) {
		total0 := traj[0].Sum()
		for n, total := range traj.Totals() {
			Expect(math.Abs(total-total0)).To(BeNumerically("<=", 1e-9*total0),
				"row %d drifted to %v", n, total)
		}
	}

	DescribeTable("holds the population sum",
		func(kind models.Kind, coupling models.Coupling, p models.Params, y0 dynamo.State) {
			m, err := models.New(kind, p, models.WithCoupling(coupling))
			Expect(err).NotTo(HaveOccurred())

			traj, err := integrators.Integrate(m, y0, grid)
			Expect(err).NotTo(HaveOccurred())
			expectConserved(traj)
		},
		Entry("SIR density", models.SIR, models.Density,
			models.Params{Beta: 0.3, Gamma: 0.1}, dynamo.State{0.99, 0.01, 0}),
		Entry("SIR frequency counts", models.SIR, models.Frequency,
			models.Params{Beta: 0.3, Gamma: 0.1}, dynamo.State{999, 1, 0}),
		Entry("SIR vaccination", models.SIR, models.Frequency,
			models.Params{Beta: 0.5, Gamma: 0.1, Nu: 0.02}, dynamo.State{999, 1, 0}),
		Entry("SEIR density", models.SEIR, models.Density,
			models.Params{Beta: 0.6, Gamma: 0.1, Sigma: 0.2}, dynamo.State{0.99, 0, 0.01, 0}),
		Entry("SEIR frequency counts", models.SEIR, models.Frequency,
			models.Params{Beta: 0.6, Gamma: 0.1, Sigma: 0.2}, dynamo.State{9900, 50, 50, 0}),
		Entry("SIR demography unit population", models.SIRDemography, models.Density,
			models.Params{Beta: 0.3, Gamma: 0.1, Mu: 0.01}, dynamo.State{0.99, 0.01, 0}),
		Entry("SEIR demography head counts", models.SEIRDemography, models.Frequency,
			models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2, Mu: 0.01}, dynamo.State{990, 0, 10, 0}),
	)

	It("matches the full model when R is reconstructed", func() {
		for _, kind := range []models.Kind{models.SIR, models.SEIR} {
			m, _ := models.New(kind, models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2})

			y0 := dynamo.State{0.99, 0.01, 0}
			if kind.HasExposed() {
				y0 = dynamo.State{0.99, 0, 0.01, 0}
			}

			full, err := integrators.Integrate(m, y0, grid)
			Expect(err).NotTo(HaveOccurred())

			red := m.Reduced(y0.Sum())
			Expect(red.StateDim()).To(Equal(m.StateDim() - 1))

			short, err := integrators.Integrate(red, red.Reduce(y0), grid)
			Expect(err).NotTo(HaveOccurred())

			expanded := red.Expand(short)
			expectConserved(expanded)
			for n := range full {
				for k := range full[n] {
					Expect(expanded[n][k]).To(BeNumerically("~", full[n][k], 1e-10))
				}
			}
		}
	})

	It("returns nil when reducing a state of the wrong width", func() {
		m, _ := models.New(models.SEIR, models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2})
		red := m.Reduced(1)

		Expect(red.Reduce(dynamo.State{0.99, 0.01})).To(BeNil())
		Expect(red.Reduce(dynamo.State{0.9, 0, 0.1, 0, 0})).To(BeNil())
		Expect(red.Reduce(dynamo.State{0.9, 0.05, 0.05, 0})).To(Equal(dynamo.State{0.9, 0.05, 0.05}))
	})

	It("reports a dimension mismatch for the wrong initial width", func() {
		m, _ := models.New(models.SEIR, models.Params{Beta: 0.3, Gamma: 0.1, Sigma: 0.2})
		_, err := integrators.Integrate(m, dynamo.State{0.99, 0.01, 0}, grid)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})
})
