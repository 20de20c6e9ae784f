// Package scene turns simulation state into per-instance render records.
//
// A Scene owns a Sim and a set of Objects keyed by Key. The object created
// for the simulation holds one Instance per body; every StepSim advances the
// Sim and rewrites those instances in place: translation from the body
// position, colour from a Gradient evaluated at the body's squared speed
// over a speed scale. Instances are never added or removed after
// construction, so len(instances) == len(bodies) for the Scene's lifetime.
//
// Instances pack into InstanceRaw records (column-major model matrix then
// RGB, little-endian float32) for upload. Anything that can accept those
// bytes and a DrawCall implements Renderer:
//
//	sc := scene.New(sim.New())
//	key, _ := sc.StepSim(dt)
//	data, err := sc.InstanceBytes(key)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Printf("%d bytes of instances", len(data))
//	if err := sc.Render(r); err != nil {
//		log.Fatal(err)
//	}
package scene
