package sweep_test

import (
	"context"
	"errors"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
	"github.com/san-kum/episim/internal/sweep"
)

var _ = Describe("Parameters", func() {
	var (
		base models.Model
		grid []float64
		y0   dynamo.State
	)

	BeforeEach(func() {
		var err error
		base, err = models.New(models.SIR, models.Params{Beta: 0.3, Gamma: 0.1})
		Expect(err).NotTo(HaveOccurred())
		grid, err = integrators.UniformGrid(0, 200, 0.1)
		Expect(err).NotTo(HaveOccurred())
		y0 = dynamo.State{0.99, 0.01, 0}
	})

	It("returns one point per value in input order", func() {
		betas := sweep.Range(0.05, 0.3, 11)
		points, err := sweep.Parameters(context.Background(), betas, sweep.Vary(base, "beta"), y0, grid, sweep.Options{Workers: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(len(betas)))

		for i, p := range points {
			Expect(p.Value).To(Equal(betas[i]))
			Expect(p.Model.Params().Beta).To(Equal(betas[i]))
			Expect(p.Trajectory).To(HaveLen(len(grid)))
		}
	})

	It("matches a serial integration bit for bit", func() {
		points, err := sweep.Parameters(context.Background(), []float64{0.2, 0.4}, sweep.Vary(base, "beta"), y0, grid, sweep.Options{})
		Expect(err).NotTo(HaveOccurred())

		m, _ := base.With("beta", 0.4)
		serial, err := integrators.Integrate(m, y0, grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[1].Trajectory.Last()).To(Equal(serial.Last()))
	})

	It("shows final size growing with R0 and staying small below threshold", func() {
		betas := sweep.Range(0.05, 0.3, 26)
		points, err := sweep.Parameters(context.Background(), betas, sweep.Vary(base, "beta"), y0, grid, sweep.Options{})
		Expect(err).NotTo(HaveOccurred())

		sizes, err := sweep.FinalSizes(points, base.RecoveredIndex())
		Expect(err).NotTo(HaveOccurred())
		Expect(sort.Float64sAreSorted(sizes)).To(BeTrue())

		r0s := sweep.R0s(points)
		for i := range points {
			if r0s[i] < 0.95 {
				Expect(sizes[i]).To(BeNumerically("<", 0.1))
			}
		}
		Expect(r0s[len(r0s)-1]).To(BeNumerically("~", 3, 1e-12))
		Expect(sizes[len(sizes)-1]).To(BeNumerically(">", 0.9))
	})

	It("shows peak infection rising with beta", func() {
		points, err := sweep.Parameters(context.Background(), sweep.Range(0.1, 0.5, 9), sweep.Vary(base, "beta"), y0, grid, sweep.Options{})
		Expect(err).NotTo(HaveOccurred())

		peaks, err := sweep.Peaks(points, base.InfectedIndex())
		Expect(err).NotTo(HaveOccurred())
		Expect(sort.Float64sAreSorted(peaks)).To(BeTrue())
	})

	It("propagates construction errors", func() {
		_, err := sweep.Parameters(context.Background(), []float64{0.1, -0.2}, sweep.Vary(base, "gamma"), y0, grid, sweep.Options{})
		Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
	})

	It("rejects a bad grid before starting", func() {
		_, err := sweep.Parameters(context.Background(), []float64{0.1}, sweep.Vary(base, "beta"), y0, []float64{0}, sweep.Options{})
		Expect(err).To(MatchError(dynamo.ErrInvalidGrid))
	})

	It("stops scheduling once the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sweep.Parameters(ctx, sweep.Range(0.1, 0.5, 5), sweep.Vary(base, "beta"), y0, grid, sweep.Options{Workers: 1})
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("Steps", func() {
	It("integrates once per step and keeps unstable output", func() {
		m, _ := models.New(models.SIR, models.Params{Beta: 3, Gamma: 1})
		runs, err := sweep.Steps(context.Background(), m, dynamo.State{0.99, 0.01, 0}, 100, []float64{5, 1, 0.1}, sweep.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(3))

		Expect(runs[0].Step).To(Equal(5.0))
		Expect(runs[0].Times).To(HaveLen(21))
		Expect(runs[2].Trajectory).To(HaveLen(1001))

		// dt=5 leaves the RK4 stability region for gamma=1
		Expect(runs[0].Trajectory[1][1]).To(BeNumerically("<", 0))
		Expect(runs[2].Trajectory.Last().IsValid()).To(BeTrue())
	})

	It("reports invalid steps", func() {
		m, _ := models.New(models.SIR, models.Params{Beta: 0.3, Gamma: 0.1})
		_, err := sweep.Steps(context.Background(), m, dynamo.State{0.99, 0.01, 0}, 100, []float64{0.1, 0}, sweep.Options{})
		Expect(err).To(MatchError(dynamo.ErrInvalidGrid))
	})
})

var _ = Describe("Range", func() {
	It("handles degenerate counts", func() {
		Expect(sweep.Range(0, 1, 0)).To(BeEmpty())
		Expect(sweep.Range(0.3, 1, 1)).To(Equal([]float64{0.3}))
		Expect(sweep.Range(0, 1, 3)).To(Equal([]float64{0, 0.5, 1}))
	})
})
