// Package mempool holds not-yet-persisted, network-verified
// transactions in fee/priority order until a block picks them up.
package mempool

import (
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/neocorex/neogo/pkg/core/transaction"
	"github.com/neocorex/neogo/pkg/util"
)

// Errors Add can return.
var (
	ErrDup                = errors.New("transaction already in the pool")
	ErrOracleResponse     = errors.New("oracle response with the same ID already pooled with higher or equal fee")
	ErrConflictsAttribute = errors.New("conflicting transaction already pooled with higher or equal fee")
	ErrInsufficientFunds  = errors.New("insufficient funds to cover this sender's pooled fees")
	ErrMempoolFull        = errors.New("mempool is full, transaction priority is too low to be accepted")
)

// Feer answers the questions the mempool needs about chain state to
// verify and prioritize transactions, without depending on the whole
// Blockchain/DAO stack.
type Feer interface {
	GetBaseExecFee() int64
	FeePerByte() int64
	BlockHeight() uint32
	GetUtilityTokenBalance(util.Uint160) *big.Int
	P2PSigExtensionsEnabled() bool
}

// EventType distinguishes the two kinds of mempool change a subscriber
// can observe.
type EventType int

// Event types.
const (
	TransactionAdded EventType = iota
	TransactionRemoved
)

// Event is published to subscribers whenever a transaction enters or
// leaves the pool.
type Event struct {
	Type EventType
	Tx   *transaction.Transaction
}

// utilityBalanceAndFees tracks, per sender, the GAS balance last
// observed and the running sum of NetworkFee across every transaction
// that sender currently has pooled — the two numbers Verify compares.
type utilityBalanceAndFees struct {
	balance *big.Int
	feeSum  *big.Int
}

// item is one pooled transaction plus the bookkeeping Pool needs: the
// caller-supplied opaque data (e.g. a P2PNotaryRequest), the height it
// was added at (for resend scheduling), and how many times it's
// already been resent.
type item struct {
	txn          *transaction.Transaction
	data         interface{}
	insertHeight uint32
	timesSent    int
}

// CompareTo orders two items: HighPriority beats everything else, and
// within the same priority class, higher fee-per-byte wins. Equal
// footing compares as 0.
func (it item) CompareTo(other item) int {
	p1 := it.txn.HasAttribute(transaction.HighPriority)
	p2 := other.txn.HasAttribute(transaction.HighPriority)
	if p1 != p2 {
		if p1 {
			return 1
		}
		return -1
	}
	lhs := it.txn.NetworkFee * int64(other.txn.Size())
	rhs := other.txn.NetworkFee * int64(it.txn.Size())
	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	default:
		return 0
	}
}

// items is verifiedTxes' element type: a slice of *item kept sorted
// with the best (highest-priority) transaction first.
type items []*item

func (p items) Len() int      { return len(p) }
func (p items) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p items) Less(i, j int) bool {
	return p[i].CompareTo(*p[j]) < 0
}

// Pool holds verified, not-yet-persisted transactions, ordered by
// priority/fee, with capacity-based eviction and NEO's notary
// conflicts/oracle-response dedup rules.
type Pool struct {
	lock sync.RWMutex

	verifiedMap   map[util.Uint256]*item
	verifiedTxes  items
	fees          map[util.Uint160]utilityBalanceAndFees
	senderTxCount map[util.Uint160]int

	// conflicts maps a victim transaction's hash to the hashes of every
	// currently-pooled transaction that names it in a Conflicts
	// attribute.
	conflicts map[util.Uint256][]util.Uint256
	// oracleResp maps an oracle request ID to the hash of the pooled
	// transaction currently carrying its response.
	oracleResp map[uint64]util.Uint256

	capacity        int
	resendThreshold uint32
	resendFunc      func(*transaction.Transaction, interface{})

	subscriptionsEnabled bool
	events               chan Event
	subsLock             sync.Mutex
	subs                 []chan<- Event
	stopCh               chan struct{}
	wg                   sync.WaitGroup
}

// New creates a Pool with the given capacity. updateFreq sets the
// initial resend threshold (blocks between re-announcing a still-valid
// transaction, capped at two resends), overridable via
// SetResendThreshold. enableSubscriptions must be true before
// RunSubscriptions/StopSubscriptions can be used.
func New(capacity int, updateFreq int, enableSubscriptions bool) *Pool {
	return &Pool{
		verifiedMap:          make(map[util.Uint256]*item),
		fees:                 make(map[util.Uint160]utilityBalanceAndFees),
		senderTxCount:        make(map[util.Uint160]int),
		conflicts:            make(map[util.Uint256][]util.Uint256),
		oracleResp:           make(map[uint64]util.Uint256),
		capacity:             capacity,
		resendThreshold:      uint32(updateFreq),
		subscriptionsEnabled: enableSubscriptions,
		events:               make(chan Event, 256),
	}
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func (p *Pool) verifyLocked(tx *transaction.Transaction, feer Feer) bool {
	sender := tx.Sender()
	balance := feer.GetUtilityTokenBalance(sender)
	feeSum := big.NewInt(0)
	if ex, ok := p.fees[sender]; ok {
		feeSum = zeroIfNil(ex.feeSum)
	}
	total := new(big.Int).Add(feeSum, big.NewInt(tx.NetworkFee))
	return total.Cmp(balance) <= 0
}

// Verify reports whether tx's sender can afford it alongside every
// other transaction of theirs already pooled, without adding it.
func (p *Pool) Verify(tx *transaction.Transaction, feer Feer) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.verifyLocked(tx, feer)
}

func (p *Pool) worstExcluding(excl map[util.Uint256]bool) *item {
	for i := len(p.verifiedTxes) - 1; i >= 0; i-- {
		it := p.verifiedTxes[i]
		if !excl[it.txn.Hash()] {
			return it
		}
	}
	return nil
}

func (p *Pool) insertSorted(it *item) {
	idx := sort.Search(len(p.verifiedTxes), func(i int) bool {
		return p.verifiedTxes[i].CompareTo(*it) < 0
	})
	p.verifiedTxes = append(p.verifiedTxes, nil)
	copy(p.verifiedTxes[idx+1:], p.verifiedTxes[idx:])
	p.verifiedTxes[idx] = it
}

// Add verifies tx against feer and inserts it into the pool, evicting
// whatever it's entitled to outbid (a lower-fee conflicting or
// oracle-duplicate transaction, or, at capacity, the single
// lowest-priority pooled transaction). data, if given, is opaque
// caller data retrievable later via TryGetData (used for
// P2PNotaryRequest-wrapped transactions).
func (p *Pool) Add(tx *transaction.Transaction, feer Feer, data ...interface{}) error {
	var itemData interface{}
	if len(data) > 0 {
		itemData = data[0]
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	h := tx.Hash()
	if _, ok := p.verifiedMap[h]; ok {
		return ErrDup
	}
	if !p.verifyLocked(tx, feer) {
		return ErrInsufficientFunds
	}

	var (
		hasOracle bool
		oracleID  uint64
	)
	if attrs := tx.GetAttributes(transaction.OracleResponseT); len(attrs) > 0 {
		hasOracle = true
		oracleID = attrs[0].Value.(*transaction.OracleResponse).ID
	}

	toEvict := make(map[util.Uint256]bool)

	if hasOracle {
		if existing, ok := p.oracleResp[oracleID]; ok {
			exItem := p.verifiedMap[existing]
			if exItem.txn.NetworkFee >= tx.NetworkFee {
				return ErrOracleResponse
			}
			toEvict[existing] = true
		}
	}

	var myVictims []transaction.Attribute
	if feer.P2PSigExtensionsEnabled() {
		myVictims = tx.GetAttributes(transaction.ConflictsT)
		for _, attr := range myVictims {
			victim := attr.Value.(*transaction.Conflicts).Hash
			if victimItem, ok := p.verifiedMap[victim]; ok {
				if victimItem.txn.NetworkFee >= tx.NetworkFee {
					return ErrConflictsAttribute
				}
				toEvict[victim] = true
			}
		}
		if conflicting, ok := p.conflicts[h]; ok {
			for _, ch := range conflicting {
				chItem, present := p.verifiedMap[ch]
				if !present {
					continue
				}
				if chItem.txn.NetworkFee >= tx.NetworkFee {
					return ErrConflictsAttribute
				}
				toEvict[ch] = true
			}
		}
	}

	newIt := &item{txn: tx, data: itemData, insertHeight: feer.BlockHeight()}
	if len(p.verifiedTxes)-len(toEvict) >= p.capacity {
		worst := p.worstExcluding(toEvict)
		if worst == nil || newIt.CompareTo(*worst) <= 0 {
			return ErrMempoolFull
		}
		toEvict[worst.txn.Hash()] = true
	}

	for victim := range toEvict {
		p.removeLocked(victim)
	}

	sender := tx.Sender()
	existingSum := big.NewInt(0)
	if ex, ok := p.fees[sender]; ok {
		existingSum = zeroIfNil(ex.feeSum)
	}
	p.fees[sender] = utilityBalanceAndFees{
		balance: feer.GetUtilityTokenBalance(sender),
		feeSum:  new(big.Int).Add(existingSum, big.NewInt(tx.NetworkFee)),
	}
	p.senderTxCount[sender]++

	p.verifiedMap[h] = newIt
	p.insertSorted(newIt)
	if hasOracle {
		p.oracleResp[oracleID] = h
	}
	for _, attr := range myVictims {
		victim := attr.Value.(*transaction.Conflicts).Hash
		p.conflicts[victim] = append(p.conflicts[victim], h)
	}

	p.notify(Event{Type: TransactionAdded, Tx: tx})
	return nil
}

// removeLocked deletes the pooled transaction under hash and all of
// its bookkeeping (fee sum, oracle/conflicts indices), assuming the
// caller already holds p.lock. Returns false if nothing was pooled
// under hash.
func (p *Pool) removeLocked(hash util.Uint256) bool {
	it, ok := p.verifiedMap[hash]
	if !ok {
		return false
	}
	delete(p.verifiedMap, hash)
	for i, e := range p.verifiedTxes {
		if e == it {
			p.verifiedTxes = append(p.verifiedTxes[:i], p.verifiedTxes[i+1:]...)
			break
		}
	}

	sender := it.txn.Sender()
	if ex, ok := p.fees[sender]; ok {
		p.senderTxCount[sender]--
		if p.senderTxCount[sender] <= 0 {
			delete(p.fees, sender)
			delete(p.senderTxCount, sender)
		} else {
			p.fees[sender] = utilityBalanceAndFees{
				balance: ex.balance,
				feeSum:  new(big.Int).Sub(zeroIfNil(ex.feeSum), big.NewInt(it.txn.NetworkFee)),
			}
		}
	}

	for _, attr := range it.txn.GetAttributes(transaction.OracleResponseT) {
		id := attr.Value.(*transaction.OracleResponse).ID
		if existing, ok := p.oracleResp[id]; ok && existing.Equals(hash) {
			delete(p.oracleResp, id)
		}
	}

	for _, attr := range it.txn.GetAttributes(transaction.ConflictsT) {
		victim := attr.Value.(*transaction.Conflicts).Hash
		lst := p.conflicts[victim]
		for i, h := range lst {
			if h.Equals(hash) {
				lst = append(lst[:i], lst[i+1:]...)
				break
			}
		}
		if len(lst) == 0 {
			delete(p.conflicts, victim)
		} else {
			p.conflicts[victim] = lst
		}
	}

	p.notify(Event{Type: TransactionRemoved, Tx: it.txn})
	return true
}

// Remove drops the transaction pooled under hash, if any.
func (p *Pool) Remove(hash util.Uint256, feer Feer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.removeLocked(hash)
}

// RemoveStale drops every pooled transaction isValid reports false
// for, and re-announces (via the resend callback set by
// SetResendThreshold) every other transaction that has sat in the
// pool for a multiple of the resend threshold's worth of blocks,
// capped at two resends per transaction.
func (p *Pool) RemoveStale(isValid func(*transaction.Transaction) bool, feer Feer) {
	p.lock.Lock()
	height := feer.BlockHeight()
	threshold := p.resendThreshold
	resendFn := p.resendFunc

	snapshot := make([]*item, len(p.verifiedTxes))
	copy(snapshot, p.verifiedTxes)

	var toResend []*item
	for _, it := range snapshot {
		if !isValid(it.txn) {
			p.removeLocked(it.txn.Hash())
			continue
		}
		if resendFn != nil && threshold > 0 && it.timesSent < 2 && height >= it.insertHeight {
			if (height-it.insertHeight)%threshold == 0 {
				it.timesSent++
				toResend = append(toResend, it)
			}
		}
	}
	p.lock.Unlock()

	for _, it := range toResend {
		go resendFn(it.txn, it.data)
	}
}

// SetResendThreshold overrides the resend threshold and callback used
// by RemoveStale.
func (p *Pool) SetResendThreshold(threshold uint32, f func(*transaction.Transaction, interface{})) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.resendThreshold = threshold
	p.resendFunc = f
}

// Count returns the number of transactions currently pooled.
func (p *Pool) Count() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.verifiedTxes)
}

func (p *Pool) containsKey(hash util.Uint256) bool {
	_, ok := p.verifiedMap[hash]
	return ok
}

// ContainsKey reports whether hash is currently pooled.
func (p *Pool) ContainsKey(hash util.Uint256) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.containsKey(hash)
}

// TryGetValue returns the pooled transaction under hash, if any.
func (p *Pool) TryGetValue(hash util.Uint256) (*transaction.Transaction, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	it, ok := p.verifiedMap[hash]
	if !ok {
		return nil, false
	}
	return it.txn, true
}

// TryGetData returns the opaque data Add was given alongside the
// transaction pooled under hash, if that transaction is still present
// in the priority-ordered list.
func (p *Pool) TryGetData(hash util.Uint256) (interface{}, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, it := range p.verifiedTxes {
		if it.txn.Hash().Equals(hash) {
			return it.data, true
		}
	}
	return nil, false
}

// GetVerifiedTransactions returns every pooled transaction, best
// priority first.
func (p *Pool) GetVerifiedTransactions() []*transaction.Transaction {
	p.lock.RLock()
	defer p.lock.RUnlock()
	out := make([]*transaction.Transaction, len(p.verifiedTxes))
	for i, it := range p.verifiedTxes {
		out[i] = it.txn
	}
	return out
}

func (p *Pool) notify(e Event) {
	if !p.subscriptionsEnabled {
		return
	}
	p.events <- e
}

// RunSubscriptions starts fanning out Events to every channel
// registered via SubscribeForTransactions. Panics if subscriptions
// weren't enabled at New.
func (p *Pool) RunSubscriptions() {
	if !p.subscriptionsEnabled {
		panic("mempool: subscriptions are not enabled")
	}
	p.stopCh = make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case e := <-p.events:
				p.subsLock.Lock()
				subs := make([]chan<- Event, len(p.subs))
				copy(subs, p.subs)
				p.subsLock.Unlock()
				for _, s := range subs {
					s <- e
				}
			case <-p.stopCh:
				return
			}
		}
	}()
}

// StopSubscriptions stops the fan-out goroutine started by
// RunSubscriptions. Panics if subscriptions weren't enabled at New.
func (p *Pool) StopSubscriptions() {
	if !p.subscriptionsEnabled {
		panic("mempool: subscriptions are not enabled")
	}
	close(p.stopCh)
	p.wg.Wait()
}

// SubscribeForTransactions registers ch to receive every future Event.
func (p *Pool) SubscribeForTransactions(ch chan<- Event) {
	p.subsLock.Lock()
	defer p.subsLock.Unlock()
	p.subs = append(p.subs, ch)
}

// UnsubscribeFromTransactions removes ch from the subscriber list.
func (p *Pool) UnsubscribeFromTransactions(ch chan<- Event) {
	p.subsLock.Lock()
	defer p.subsLock.Unlock()
	for i, s := range p.subs {
		if s == ch {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			break
		}
	}
}
