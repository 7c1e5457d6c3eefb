package hbv

import (
	"github.com/gosuri/uiprogress"
)

// EvaluateSerial runs the model with a console progress bar labelled by the
// current date, then writes the output binaries to outdirprfx (when not empty).
func (ev *Evaluator) EvaluateSerial(frc *Forcing, outdirprfx string) (*Output, error) {
	if err := frc.Validate(); err != nil {
		return nil, err
	}
	ep := ev.Opts.PET.Evaporation(frc.T, frc.Tm, frc.Lat, ev.Par.CoeffPET)

	prg := uiprogress.New()
	prg.Start()
	bar := prg.AddBar(frc.Len()).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		if c := b.Current(); c > 0 {
			return frc.T[c-1].Format("2006-01-02")
		}
		return frc.T[0].Format("2006-01-02")
	})
	out, err := ev.evaluate(frc, ep, func(int) { bar.Incr() })
	prg.Stop()
	if err != nil {
		return nil, err
	}

	if outdirprfx != "" {
		if err := out.SaveToBins(frc.T, outdirprfx); err != nil {
			return nil, err
		}
	}
	return out, nil
}
