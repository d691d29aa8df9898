package engine_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/engine"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
	"github.com/san-kum/chaoscipher/internal/quality"
	"github.com/san-kum/chaoscipher/internal/substitute"
)

func gradient(h, w, c int) pixbuf.Buffer {
	b := pixbuf.New(h, w, c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				b.Pix[(y*w+x)*c+ch] = byte(x + y + 40*ch)
			}
		}
	}
	return b
}

var _ = Describe("Pipeline", func() {
	var (
		registry *engine.Registry
		logger   *logrus.Logger
	)

	BeforeEach(func() {
		registry = engine.NewRegistry()
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	})

	build := func(preset string) *engine.Engine {
		cfg := config.GetPreset(preset)
		Expect(cfg).NotTo(BeNil())
		e, err := registry.Build(cfg, engine.ResolveKey(cfg, nil), engine.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	for _, preset := range []string{"des", "des-rgb", "henon", "hybrid"} {
		preset := preset
		It("round trips with the "+preset+" preset", func() {
			e := build(preset)
			channels := config.GetPreset(preset).Channels()
			plain := gradient(32, 24, channels)

			sealed, err := e.Seal(plain)
			Expect(err).NotTo(HaveOccurred())
			Expect(sealed.Data).NotTo(BeEmpty())

			opened, err := e.Open(sealed.Data)
			Expect(err).NotTo(HaveOccurred())
			Expect(opened.Pix).To(Equal(plain.Pix))
			Expect(opened.Channels).To(Equal(channels))
		})
	}

	Context("in keystream mode", func() {
		It("spreads the histogram and breaks pixel differences", func() {
			e := build("hybrid")
			plain := gradient(64, 64, 3)

			sealed, err := e.Seal(plain)
			Expect(err).NotTo(HaveOccurred())

			report, err := quality.Evaluate(plain, sealed.Preview)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.NPCR).To(BeNumerically(">", 95))
			Expect(report.Entropy).To(BeNumerically(">", 7.9))
			Expect(report.Entropy).To(BeNumerically(">", report.PlainEntropy))
		})

		It("decrypts to noise under a different seed", func() {
			plain := gradient(16, 16, 1)
			sealed, err := build("henon").Seal(plain)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.GetPreset("henon")
			cfg.Henon.X0 += 1e-9
			other, err := registry.Build(cfg, nil, engine.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			opened, err := other.Open(sealed.Data)
			Expect(err).NotTo(HaveOccurred())
			acc, err := quality.Accuracy(plain.Pix, opened.Pix)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc).To(BeNumerically("<", 10))
		})
	})

	Context("in block mode", func() {
		It("reports a padding error for the wrong key", func() {
			sealed, err := build("des").Seal(gradient(8, 8, 1))
			Expect(err).NotTo(HaveOccurred())

			cfg := config.GetPreset("des")
			cfg.Block.Key = "87654321"
			other, err := registry.Build(cfg, engine.ResolveKey(cfg, nil), engine.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			_, err = other.Open(sealed.Data)
			Expect(err).To(MatchError(substitute.ErrPadding))
		})

		It("accepts a long key only when truncation is enabled", func() {
			cfg := config.GetPreset("des")
			cfg.Block.Key = "12345678 and more"

			_, err := registry.Build(cfg, engine.ResolveKey(cfg, nil))
			Expect(err).To(MatchError(substitute.ErrInvalidKeyLength))

			cfg.Block.TruncateKey = true
			long, err := registry.Build(cfg, engine.ResolveKey(cfg, nil), engine.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			plain := gradient(8, 8, 1)
			sealed, err := long.Seal(plain)
			Expect(err).NotTo(HaveOccurred())
			opened, err := build("des").Open(sealed.Data)
			Expect(err).NotTo(HaveOccurred())
			Expect(opened.Pix).To(Equal(plain.Pix))
		})
	})
})
