package ppo

import (
	"path/filepath"
)

// Checkpointer persists and restores the two parameter blobs. Implemented by
// DirCheckpointer for the filesystem; tests inject their own.
type Checkpointer interface {
	Save(actor *Actor, critic *Critic) error
	Load(actor *Actor, critic *Critic) error
}

// DirCheckpointer stores the actor/critic parameter blobs under a directory.
type DirCheckpointer struct {
	Dir string
}

var _ Checkpointer = DirCheckpointer{}

func (d DirCheckpointer) actorPath() string {
	return filepath.Join(d.Dir, "actor_net.json")
}

func (d DirCheckpointer) criticPath() string {
	return filepath.Join(d.Dir, "critic_net.json")
}

func (d DirCheckpointer) Save(actor *Actor, critic *Critic) error {
	if err := actor.Net().SaveParams(d.actorPath()); err != nil {
		return err
	}
	return critic.Net().SaveParams(d.criticPath())
}

func (d DirCheckpointer) Load(actor *Actor, critic *Critic) error {
	if err := actor.Net().LoadParams(d.actorPath()); err != nil {
		return err
	}
	return critic.Net().LoadParams(d.criticPath())
}
