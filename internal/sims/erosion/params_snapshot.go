package erosion

import (
	"fmt"
	"strconv"

	"erode/internal/core"
	"erode/internal/kernel"
)

// Parameters exposes the live configuration grouped for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	c := e.cfg
	groups := []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				intParam("resolution", "Resolution", c.Resolution),
				intParam("speed", "Steps per frame", c.Speed),
				param("seed", "Seed", core.KindInt, strconv.FormatInt(c.Seed, 10)),
				floatParam("timestep", "Timestep", c.Timestep),
			},
		},
		{
			Name: "Terrain",
			Params: []core.Parameter{
				floatParam("terrain_scale", "Terrain scale", c.TerrainScale),
				floatParam("terrain_height", "Terrain height", c.TerrainHeight),
				boolParam("terrain_base_mask", "Island mask", c.TerrainBaseMask),
			},
		},
		{
			Name:    "Hydraulic",
			Summary: "Virtual-pipe water flow and sediment transport",
			Params: []core.Parameter{
				floatParam("pipe_length", "Pipe length", c.PipeLength),
				floatParam("pipe_area", "Pipe area", c.PipeArea),
				floatParam("kc", "Sediment capacity", c.Kc),
				floatParam("ks", "Dissolving rate", c.Ks),
				floatParam("kd", "Deposition rate", c.Kd),
				floatParam("velocity_multiplier", "Velocity multiplier", c.VelocityMultiplier),
				floatParam("velocity_advection_mag", "Velocity advection", c.VelocityAdvectionMag),
				choiceParam("advection_method", "Advection", c.AdvectionMethod),
			},
		},
		{
			Name: "Rain",
			Params: []core.Parameter{
				boolParam("rain_enabled", "Rain", c.RainEnabled),
				floatParam("rain_degree", "Rain degree", c.RainDegree),
				floatParam("evaporation_constant", "Evaporation", c.EvaporationConstant),
			},
		},
		{
			Name: "Thermal",
			Params: []core.Parameter{
				floatParam("thermal_rate", "Thermal rate", c.ThermalRate),
				floatParam("thermal_talus_angle_scale", "Talus angle", c.ThermalTalusAngleScale),
				floatParam("thermal_erosion_scale", "Thermal scale", c.ThermalErosionScale),
			},
		},
		{
			Name: "Smoothing",
			Params: []core.Parameter{
				boolParam("smoothing_enabled", "Smoothing", c.SmoothingEnabled),
				choiceParam("smoothing_mode", "Smoothing mode", c.SmoothingMode),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "speed", Label: "Steps/frame", Kind: core.KindInt, Step: 1, Range: core.Between(1, 32)},
		{Key: "resolution", Label: "Resolution", Kind: core.KindInt, Step: 64, Range: core.Between(64, 2048)},
		{Key: "terrain_height", Label: "Terrain height", Kind: core.KindFloat, Step: 0.1, Range: core.AtLeast(0)},
		{Key: "terrain_scale", Label: "Terrain scale", Kind: core.KindFloat, Step: 0.1, Range: core.AtLeast(0)},
		{Key: "terrain_base_mask", Label: "Island mask", Kind: core.KindBool},
		{Key: "rain_enabled", Label: "Rain", Kind: core.KindBool},
		{Key: "rain_degree", Label: "Rain degree", Kind: core.KindFloat, Step: 0.5, Range: core.AtLeast(0)},
		{Key: "evaporation_constant", Label: "Evaporation", Kind: core.KindFloat, Step: 0.001, Range: core.Between(0, 1)},
		{Key: "kc", Label: "Capacity Kc", Kind: core.KindFloat, Step: 0.01, Range: core.AtLeast(0)},
		{Key: "ks", Label: "Dissolve Ks", Kind: core.KindFloat, Step: 0.002, Range: core.AtLeast(0)},
		{Key: "kd", Label: "Deposit Kd", Kind: core.KindFloat, Step: 0.002, Range: core.AtLeast(0)},
		{Key: "thermal_rate", Label: "Thermal rate", Kind: core.KindFloat, Step: 0.1, Range: core.AtLeast(0)},
		{Key: "thermal_talus_angle_scale", Label: "Talus angle", Kind: core.KindFloat, Step: 0.5, Range: core.AtLeast(0)},
		{Key: "advection_method", Label: "Advection", Kind: core.KindChoice, Choices: AdvectionMethodNames()},
		{Key: "smoothing_enabled", Label: "Smoothing", Kind: core.KindBool},
		{Key: "smoothing_mode", Label: "Smooth mode", Kind: core.KindChoice, Choices: kernel.SmoothModeNames()},
	}
}

// SetParameter applies one textual edit through the override path, so the
// edit is validated and may reset or resize the engine.
func (e *Engine) SetParameter(key, value string) error {
	if err := e.ApplyOverrides(map[string]string{key: value}); err != nil {
		e.logf("erosion: %v", err)
		return err
	}
	return nil
}

func param(key, label string, kind core.ParamKind, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Kind: kind, Value: value}
}

func intParam(key, label string, value int) core.Parameter {
	return param(key, label, core.KindInt, strconv.Itoa(value))
}

func floatParam(key, label string, value float64) core.Parameter {
	return param(key, label, core.KindFloat, strconv.FormatFloat(value, 'f', -1, 64))
}

func boolParam(key, label string, value bool) core.Parameter {
	return param(key, label, core.KindBool, strconv.FormatBool(value))
}

func choiceParam(key, label string, value fmt.Stringer) core.Parameter {
	return param(key, label, core.KindChoice, value.String())
}
