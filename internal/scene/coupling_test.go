package scene_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
)

type captureRenderer struct {
	uploads map[scene.Key][]byte
	draws   int
}

func (c *captureRenderer) UploadInstances(key scene.Key, data []byte) error {
	c.uploads[key] = data
	return nil
}

func (c *captureRenderer) Draw(call scene.DrawCall) error {
	c.draws++
	return nil
}

var _ = Describe("Scene coupling", func() {
	var (
		s  *sim.Sim
		sc *scene.Scene
	)

	Context("for every preset", func() {
		for _, name := range config.ListPresets() {
			It("keeps one instance per body in "+name, func() {
				cfg := config.GetPreset(name)
				var err error
				s, err = sim.FromConfig(cfg)
				Expect(err).NotTo(HaveOccurred())
				sc = scene.New(s)
				n := s.System().Len()

				for i := 0; i < 500; i++ {
					_, obj := sc.StepSim(cfg.Dt)
					Expect(obj.Instances).To(HaveLen(n))
				}
				Expect(s.System().Len()).To(Equal(n))
			})
		}
	})

	Context("with the default sun-earth scene", func() {
		BeforeEach(func() {
			s = sim.New()
			sc = scene.New(s)
		})

		It("uploads records that match the bodies", func() {
			sc.StepSim(1e-3)
			r := &captureRenderer{uploads: make(map[scene.Key][]byte)}
			Expect(sc.Render(r)).To(Succeed())
			Expect(r.draws).To(Equal(1))

			raws := scene.UnmarshalInstances(r.uploads[sc.SimKey()])
			Expect(raws).To(HaveLen(2))
			for i, raw := range raws {
				p := s.System().Body(i).Position()
				Expect(raw.Translation()).To(Equal([3]float32{float32(p.X), float32(p.Y), float32(p.Z)}))
			}
		})

		It("colours the fast earth brighter than the resting sun", func() {
			_, obj := sc.StepSim(1e-3)
			sun, earth := obj.Instances[0].Color, obj.Instances[1].Color
			Expect(earth[1]).To(BeNumerically(">", sun[1]))
		})

		It("steps with the slowed wall clock", func() {
			clock := scene.NewClock(scene.DefaultSlowdown, 0, 0)
			for i := 0; i < 60; i++ {
				sc.Tick(clock, time.Second/60)
			}
			Expect(s.Steps()).To(Equal(60))
			Expect(s.Time()).To(BeNumerically("~", 1.0/12, 1e-8))
		})
	})
})
