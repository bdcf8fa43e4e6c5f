// Package checkpointer implements Checkpointers, which periodically
// save objects such as network weights during training
package checkpointer

// Saver is an object that can be saved/serialized to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves objects based on the number of
// training epochs completed
type Checkpointer interface {
	Checkpoint(epoch int) error
}
