package blockchainer

import (
	"github.com/n3core/neogo/pkg/config"
	"github.com/n3core/neogo/pkg/core/block"
	"github.com/n3core/neogo/pkg/core/dao"
	"github.com/n3core/neogo/pkg/core/mempool"
	"github.com/n3core/neogo/pkg/core/state"
	"github.com/n3core/neogo/pkg/core/transaction"
	"github.com/n3core/neogo/pkg/crypto/keys"
	"github.com/n3core/neogo/pkg/smartcontract/trigger"
	"github.com/n3core/neogo/pkg/util"
)

// Blockchainer is the interface the consensus, RPC, and P2P layers use to
// drive and query the chain, kept deliberately narrow: it exposes what a
// consumer needs (headers, blocks, native contract state, mempool,
// subscriptions) without leaking persistence internals (those live behind
// dao.DAO).
type Blockchainer interface {
	Policer

	GetConfig() config.ProtocolConfiguration

	AddHeaders(...*block.Header) error
	AddBlock(*block.Block) error
	BlockHeight() uint32
	HeaderHeight() uint32
	Close()

	GetBlock(hash util.Uint256) (*block.Block, error)
	GetHeader(hash util.Uint256) (*block.Header, error)
	GetHeaderHash(uint32) util.Uint256
	CurrentHeaderHash() util.Uint256
	CurrentBlockHash() util.Uint256
	HasBlock(util.Uint256) bool
	HasTransaction(util.Uint256) bool
	GetTransaction(util.Uint256) (*transaction.Transaction, uint32, error)
	GetAppExecResults(util.Uint256, trigger.Type) ([]state.AppExecResult, error)

	// Native contract state, addressed the N3 way: script hashes are
	// derived deterministically, not looked up by name at call time.
	GetNativeContractScriptHash(name string) (util.Uint160, error)
	GetContractState(hash util.Uint160) *state.Contract
	GetContractScriptHash(id int32) (util.Uint160, error)
	GetStorageItem(id int32, key []byte) state.StorageItem

	// Consensus membership and the MPT state root the chain is
	// committing to, superseding NEO2's separate validator-vote
	// bookkeeping.
	GetValidators() ([]*keys.PublicKey, error)
	GetStandByValidators() (keys.PublicKeys, error)
	GetStateRoot(height uint32) (*state.MPTRoot, error)

	GetScriptHashesForVerifying(*transaction.Transaction) ([]util.Uint160, error)
	VerifyTx(*transaction.Transaction) error
	VerifyWitness(util.Uint160, *transaction.Transaction, *transaction.Witness, int64) (int64, error)
	PoolTx(*transaction.Transaction, ...*mempool.Pool) error
	GetMemPool() *mempool.Pool

	SubscribeForBlocks(ch chan<- *block.Block)
	SubscribeForExecutions(ch chan<- *state.AppExecResult)
	SubscribeForNotifications(ch chan<- *state.NotificationEvent)
	SubscribeForTransactions(ch chan<- *transaction.Transaction)
	UnsubscribeFromBlocks(ch chan<- *block.Block)
	UnsubscribeFromExecutions(ch chan<- *state.AppExecResult)
	UnsubscribeFromNotifications(ch chan<- *state.NotificationEvent)
	UnsubscribeFromTransactions(ch chan<- *transaction.Transaction)

	// GetDAO exposes the read-only DAO snapshot backing the current
	// height, used by RPC handlers that need ad hoc storage reads
	// without going through a native contract method.
	GetDAO() *dao.Simple
}
