package ppo

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/jssp-rl/jssp-ppo/types"
)

// Trainer drives the epoch loop: rollout collection, the update engine, the
// convergence window and the stopping rule.
type Trainer struct {
	env       types.Environment
	config    types.Config
	actor     *Actor
	critic    *Critic
	collector *RolloutCollector
	replay    *ReplayBuffer
	engine    *UpdateEngine

	checkpointer Checkpointer
	log          *logrus.Entry
}

// Result is the training summary for one case.
type Result struct {
	// minimum makespan observed across the whole run
	MinMakeSpan int
	// index of the last recorded episode
	ConvergedEpisode int
	// wall time of the run
	Elapsed time.Duration
	// whether the stopping rule fired (as opposed to budget exhaustion)
	Converged bool
	// one entry per collected episode, in collection order
	Records []types.EpisodeRecord
}

// NewTrainer wires the actor, critic, replay buffer and update engine for
// the given environment. All randomness flows from config.Seed; a zero seed
// means time-based.
func NewTrainer(env types.Environment, config types.Config, checkpointer Checkpointer, logger *logrus.Logger) *Trainer {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	hidden := config.HiddenUnitsFor(env.StateDim())
	batchSize := config.BatchSizeFor(env.Jobs(), env.Machines())
	capacity := config.MemorySize * env.Jobs() * env.Machines()

	actor := NewActor(env.StateDim(), env.ActionDim(), hidden, config.ActorLR, src)
	critic := NewCritic(env.StateDim(), hidden, config.CriticLR, src)
	replay := NewReplayBuffer(capacity, config.Alpha, config.AdvantageFloor, src)

	return &Trainer{
		env:          env,
		config:       config,
		actor:        actor,
		critic:       critic,
		collector:    NewRolloutCollector(env, actor, config.Gamma),
		replay:       replay,
		engine:       NewUpdateEngine(actor, critic, replay, config, batchSize, src),
		checkpointer: checkpointer,
		log:          logger.WithField("case", env.CaseName()),
	}
}

func (t *Trainer) Actor() *Actor   { return t.actor }
func (t *Trainer) Critic() *Critic { return t.critic }

// Train runs epochs until the makespan has been constant for a full
// convergence window, the epoch bound is hit, or the wall-clock budget runs
// out. On any termination the final parameters are persisted and the
// summary returned.
func (t *Trainer) Train() (*Result, error) {
	start := time.Now()
	budget := time.Duration(t.config.TimeBudgetSeconds) * time.Second
	window := types.NewMakeSpanWindow(t.config.ConvergenceWindow)
	records := make([]types.EpisodeRecord, 0)

	minMakeSpan := int(^uint(0) >> 1)
	lastEpisode := 0
	converged := false

	for epoch := 0; epoch < t.config.MaxEpochs; epoch++ {
		if time.Since(start) > budget {
			t.log.WithField("epoch", epoch).Info("wall-clock budget exhausted")
			break
		}

		buffer := types.NewEpochBuffer()
		for m := 0; m < t.config.MemorySize; m++ {
			episode, err := t.collector.CollectEpisode()
			if err != nil {
				return nil, err
			}
			buffer.AppendEpisode(episode.Transitions)

			lastEpisode = epoch*t.config.MemorySize + m
			if episode.MakeSpan < minMakeSpan {
				minMakeSpan = episode.MakeSpan
			}
			window.Append(episode.MakeSpan)
			records = append(records, types.EpisodeRecord{
				Episode:     lastEpisode,
				Epoch:       epoch,
				MakeSpan:    episode.MakeSpan,
				Reward:      episode.Reward,
				MinMakeSpan: minMakeSpan,
			})
			t.log.WithFields(logrus.Fields{
				"epoch":       epoch,
				"episode":     lastEpisode,
				"makespan":    episode.MakeSpan,
				"reward":      episode.Reward,
				"minMakespan": minMakeSpan,
			}).Info("episode")
		}

		if err := t.replay.SetLength(buffer.Len()); err != nil {
			return nil, err
		}
		if err := t.engine.Update(buffer); err != nil {
			return nil, err
		}

		if window.Converged() {
			t.log.WithField("episode", lastEpisode).Info("makespan converged")
			converged = true
			break
		}
	}

	if t.checkpointer != nil {
		if err := t.checkpointer.Save(t.actor, t.critic); err != nil {
			return nil, err
		}
	}

	result := &Result{
		MinMakeSpan:      minMakeSpan,
		ConvergedEpisode: lastEpisode,
		Elapsed:          time.Since(start),
		Converged:        converged,
		Records:          records,
	}
	t.log.WithFields(logrus.Fields{
		"minMakespan": result.MinMakeSpan,
		"episode":     result.ConvergedEpisode,
		"elapsed":     result.Elapsed.Seconds(),
		"converged":   result.Converged,
	}).Info("training finished")
	return result, nil
}
