// Package classifier scores feature vectors with a small inference-only
// neural network: three hidden ReLU layers and a sigmoid output mapping a
// vector to a confidence in [0,1]. Training happens elsewhere; this
// package only loads versioned JSON weights and runs forward passes.
// When weights are missing or invalid it degrades to deterministic
// seeded random weights instead of failing startup.
package classifier
