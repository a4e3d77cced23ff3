package anim_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/harmonik/internal/anim"
	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

// stickySource keeps callbacks after cancellation, like a timer that has
// already fired when the cancel arrives.
type stickySource struct {
	fns       []func(float64)
	cancelled []anim.FrameID
}

func (s *stickySource) RequestFrame(fn func(float64)) anim.FrameID {
	s.fns = append(s.fns, fn)
	return anim.FrameID(len(s.fns))
}

func (s *stickySource) CancelFrame(id anim.FrameID) {
	s.cancelled = append(s.cancelled, id)
}

var _ = Describe("Loop", func() {
	It("runs only callbacks requested before the pump", func() {
		loop := anim.NewLoop()
		var got []float64
		var requeue func(float64)
		requeue = func(ts float64) {
			got = append(got, ts)
			loop.RequestFrame(requeue)
		}
		loop.RequestFrame(requeue)

		Expect(loop.Pump(10)).To(Equal(1))
		Expect(loop.Pump(20)).To(Equal(1))
		Expect(got).To(Equal([]float64{10, 20}))
		Expect(loop.Pending()).To(Equal(1))
	})

	It("skips cancelled requests", func() {
		loop := anim.NewLoop()
		called := false
		id := loop.RequestFrame(func(float64) { called = true })
		loop.CancelFrame(id)

		Expect(loop.Pump(5)).To(Equal(0))
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("Scheduler", func() {
	var (
		store  *params.Store
		loop   *anim.Loop
		latest *anim.Latest
		sched  *anim.Scheduler
	)

	BeforeEach(func() {
		store = params.NewStore(nil)
		loop = anim.NewLoop()
		latest = &anim.Latest{}
		sched = anim.New(raster.New(raster.Options{Workers: 1}), store, loop, latest, 8, 6)
	})

	AfterEach(func() {
		sched.Close()
	})

	Context("when stopped", func() {
		It("renders a static frame at timestamp 0 on every parameter change", func() {
			store.SetSpeed(1.7)
			Expect(latest.Commits()).To(Equal(uint64(1)))

			f := latest.Frame()
			Expect(f.Timestamp).To(BeZero())
			Expect(f.Params.Speed).To(Equal(1.7))
			Expect(f.Width).To(Equal(8))
			Expect(f.Height).To(Equal(6))

			Expect(store.ApplyPreset("psychedelic")).To(Succeed())
			Expect(latest.Commits()).To(Equal(uint64(2)))
			Expect(latest.Frame().Params.Effect).To(Equal(field.Spiral))
		})

		It("schedules nothing", func() {
			store.SetBlend(0.2)
			Expect(loop.Pending()).To(BeZero())
			Expect(sched.IsRunning()).To(BeFalse())
		})
	})

	Context("when running", func() {
		BeforeEach(func() {
			sched.Start()
		})

		It("keeps exactly one frame request outstanding", func() {
			Expect(sched.IsRunning()).To(BeTrue())
			Expect(loop.Pending()).To(Equal(1))

			sched.Start()
			Expect(loop.Pending()).To(Equal(1))
		})

		It("commits one frame per pump with the pump timestamp", func() {
			loop.Pump(16)
			Expect(latest.Frame().Timestamp).To(Equal(16.0))
			loop.Pump(33)
			Expect(latest.Frame().Timestamp).To(Equal(33.0))
			Expect(latest.Commits()).To(Equal(uint64(2)))
			Expect(sched.LastTimestamp()).To(Equal(33.0))
		})

		It("picks up parameter changes on the next tick only", func() {
			loop.Pump(16)
			store.SetEffect(field.Ripple)
			Expect(latest.Commits()).To(Equal(uint64(1)))

			loop.Pump(32)
			Expect(latest.Frame().Params.Effect).To(Equal(field.Ripple))
		})

		It("renders the same bytes as a direct render", func() {
			loop.Pump(250)
			want := raster.Render(store.Snapshot(), 250, 8, 6)
			Expect(latest.Frame().Pix).To(Equal(want))
		})

		It("reports frame statistics", func() {
			var stats []anim.FrameStats
			sched.OnFrame(func(s anim.FrameStats) { stats = append(stats, s) })
			loop.Pump(40)
			Expect(stats).To(HaveLen(1))
			Expect(stats[0].Timestamp).To(Equal(40.0))
			Expect(stats[0].Running).To(BeTrue())
		})

		It("cancels the pending request on stop", func() {
			sched.Stop()
			Expect(sched.IsRunning()).To(BeFalse())
			Expect(loop.Pending()).To(BeZero())
			Expect(loop.Pump(50)).To(BeZero())
			Expect(latest.Commits()).To(BeZero())
		})

		It("toggles back to a static preview", func() {
			loop.Pump(100)
			Expect(sched.Toggle()).To(BeFalse())
			Expect(latest.Frame().Timestamp).To(BeZero())
			Expect(sched.Toggle()).To(BeTrue())
			Expect(loop.Pending()).To(Equal(1))
		})
	})

	It("never commits from a callback that was in flight when stopped", func() {
		src := &stickySource{}
		s := anim.New(raster.New(raster.Options{}), store, src, latest, 4, 4)
		defer s.Close()

		s.Start()
		Expect(src.fns).To(HaveLen(1))
		s.Stop()
		Expect(src.cancelled).To(ConsistOf(anim.FrameID(1)))

		src.fns[0](16)
		Expect(latest.Commits()).To(BeZero())
		Expect(src.fns).To(HaveLen(1), "a stale callback must not reschedule")
	})

	It("ignores stale callbacks from a previous run after restart", func() {
		src := &stickySource{}
		s := anim.New(raster.New(raster.Options{}), store, src, latest, 4, 4)
		defer s.Close()

		s.Start()
		s.Stop()
		s.Start()
		Expect(src.fns).To(HaveLen(2))

		src.fns[0](10)
		Expect(latest.Commits()).To(BeZero())
		src.fns[1](20)
		Expect(latest.Frame().Timestamp).To(Equal(20.0))
	})

	It("detaches from the store on close", func() {
		sched.Close()
		store.SetScale(0.3)
		Expect(latest.Commits()).To(BeZero())

		sched.Start()
		Expect(sched.IsRunning()).To(BeFalse())
		Expect(loop.Pending()).To(BeZero())
	})

	It("applies a resize from the next frame", func() {
		sched.Resize(3, 2)
		sched.Tick(5)
		Expect(latest.Frame().Width).To(Equal(3))
		Expect(latest.Frame().Pix).To(HaveLen(3 * 2 * 4))
	})

	It("survives concurrent toggling while the host pumps", func() {
		var wg sync.WaitGroup
		done := make(chan struct{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts := 0.0
			for {
				select {
				case <-done:
					return
				default:
					ts += 16
					loop.Pump(ts)
				}
			}
		}()
		for i := 0; i < 50; i++ {
			sched.Toggle()
			store.SetBlend(float64(i%10) / 10)
		}
		close(done)
		wg.Wait()

		sched.Stop()
		Expect(loop.Pending()).To(BeZero())
	})
})
