package contracts

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// ResolverABI is the ABI of the SyndicateResolver contract
const ResolverABI = `[
	{
		"inputs": [
			{
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			}
		],
		"name": "getIntent",
		"outputs": [
			{
				"internalType": "address",
				"name": "syndicateAddress",
				"type": "address"
			},
			{
				"internalType": "uint256",
				"name": "amount",
				"type": "uint256"
			},
			{
				"internalType": "address",
				"name": "tokenAddress",
				"type": "address"
			},
			{
				"internalType": "uint32",
				"name": "sourceChain",
				"type": "uint32"
			},
			{
				"internalType": "uint32",
				"name": "destinationChain",
				"type": "uint32"
			},
			{
				"internalType": "bool",
				"name": "useOptimalRoute",
				"type": "bool"
			},
			{
				"internalType": "uint256",
				"name": "maxFeePercentage",
				"type": "uint256"
			},
			{
				"internalType": "uint256",
				"name": "deadline",
				"type": "uint256"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			}
		],
		"name": "executedIntents",
		"outputs": [
			{
				"internalType": "bool",
				"name": "",
				"type": "bool"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			},
			{
				"internalType": "bytes",
				"name": "signature",
				"type": "bytes"
			}
		],
		"name": "resolveIntent",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{
				"indexed": true,
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			},
			{
				"indexed": true,
				"internalType": "address",
				"name": "user",
				"type": "address"
			},
			{
				"indexed": false,
				"internalType": "uint8",
				"name": "intentType",
				"type": "uint8"
			}
		],
		"name": "IntentSubmitted",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{
				"indexed": true,
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			},
			{
				"indexed": false,
				"internalType": "uint32",
				"name": "sourceChain",
				"type": "uint32"
			},
			{
				"indexed": false,
				"internalType": "uint32",
				"name": "destinationChain",
				"type": "uint32"
			}
		],
		"name": "CrossChainOperationInitiated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{
				"indexed": true,
				"internalType": "uint256",
				"name": "ticketId",
				"type": "uint256"
			},
			{
				"indexed": false,
				"internalType": "uint256",
				"name": "amount",
				"type": "uint256"
			}
		],
		"name": "WinningTicketDetected",
		"type": "event"
	}
]`

// ResolverIntent is the on-chain representation of an intent returned by getIntent
type ResolverIntent struct {
	SyndicateAddress common.Address
	Amount           *big.Int
	TokenAddress     common.Address
	SourceChain      uint32
	DestinationChain uint32
	UseOptimalRoute  bool
	MaxFeePercentage *big.Int
	Deadline         *big.Int
}

// Resolver is an auto generated Go binding around an Ethereum contract.
type Resolver struct {
	ResolverCaller     // Read-only binding to the contract
	ResolverTransactor // Write-only binding to the contract
	ResolverFilterer   // Log filterer for contract events
}

// ResolverCaller is an auto generated read-only Go binding around an Ethereum contract.
type ResolverCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// ResolverTransactor is an auto generated write-only Go binding around an Ethereum contract.
type ResolverTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// ResolverFilterer is an auto generated log filtering Go binding around an Ethereum contract events.
type ResolverFilterer struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// ResolverSession is an auto generated Go binding around an Ethereum contract,
// with pre-set call and transact options.
type ResolverSession struct {
	Contract     *Resolver         // Generic contract binding to set the session for
	CallOpts     bind.CallOpts     // Call options to use throughout this session
	TransactOpts bind.TransactOpts // Transaction auth options to use throughout this session
}

// ResolverCallerSession is an auto generated read-only Go binding around an Ethereum contract,
// with pre-set call options.
type ResolverCallerSession struct {
	Contract *ResolverCaller // Generic contract caller binding to set the session for
	CallOpts bind.CallOpts   // Call options to use throughout this session
}

// ResolverTransactorSession is an auto generated write-only Go binding around an Ethereum contract,
// with pre-set transact options.
type ResolverTransactorSession struct {
	Contract     *ResolverTransactor // Generic contract transactor binding to set the session for
	TransactOpts bind.TransactOpts   // Transaction auth options to use throughout this session
}

// ResolverRaw is an auto generated low-level Go binding around an Ethereum contract.
type ResolverRaw struct {
	Contract *Resolver // Generic contract binding to access the raw methods on
}

// NewResolver creates a new instance of Resolver, bound to a specific deployed contract.
func NewResolver(address common.Address, backend bind.ContractBackend) (*Resolver, error) {
	contract, err := bindResolver(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Resolver{ResolverCaller: ResolverCaller{contract: contract}, ResolverTransactor: ResolverTransactor{contract: contract}, ResolverFilterer: ResolverFilterer{contract: contract}}, nil
}

// NewResolverCaller creates a new read-only instance of Resolver, bound to a specific deployed contract.
func NewResolverCaller(address common.Address, caller bind.ContractCaller) (*ResolverCaller, error) {
	contract, err := bindResolver(address, caller, nil, nil)
	if err != nil {
		return nil, err
	}
	return &ResolverCaller{contract: contract}, nil
}

// NewResolverFilterer creates a new log filterer instance of Resolver, bound to a specific deployed contract.
func NewResolverFilterer(address common.Address, filterer bind.ContractFilterer) (*ResolverFilterer, error) {
	contract, err := bindResolver(address, nil, nil, filterer)
	if err != nil {
		return nil, err
	}
	return &ResolverFilterer{contract: contract}, nil
}

// bindResolver binds a generic wrapper to an already deployed contract.
func bindResolver(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(ResolverABI))
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, parsed, caller, transactor, filterer), nil
}

// Call invokes the (constant) contract method with params as input values and
// sets the output to result.
func (_Resolver *ResolverRaw) Call(opts *bind.CallOpts, result *[]interface{}, method string, params ...interface{}) error {
	return _Resolver.Contract.ResolverCaller.contract.Call(opts, result, method, params...)
}

// Transact invokes the (paid) contract method with params as input values.
func (_Resolver *ResolverRaw) Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error) {
	return _Resolver.Contract.ResolverTransactor.contract.Transact(opts, method, params...)
}

// GetIntent is a free data retrieval call binding the contract method 0x2531a0f4.
//
// Solidity: function getIntent(bytes32 intentId) view returns(address syndicateAddress, uint256 amount, address tokenAddress, uint32 sourceChain, uint32 destinationChain, bool useOptimalRoute, uint256 maxFeePercentage, uint256 deadline)
func (_Resolver *ResolverCaller) GetIntent(opts *bind.CallOpts, intentId [32]byte) (ResolverIntent, error) {
	var out []interface{}
	err := _Resolver.contract.Call(opts, &out, "getIntent", intentId)

	outstruct := new(ResolverIntent)
	if err != nil {
		return *outstruct, err
	}

	outstruct.SyndicateAddress = *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	outstruct.Amount = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	outstruct.TokenAddress = *abi.ConvertType(out[2], new(common.Address)).(*common.Address)
	outstruct.SourceChain = *abi.ConvertType(out[3], new(uint32)).(*uint32)
	outstruct.DestinationChain = *abi.ConvertType(out[4], new(uint32)).(*uint32)
	outstruct.UseOptimalRoute = *abi.ConvertType(out[5], new(bool)).(*bool)
	outstruct.MaxFeePercentage = *abi.ConvertType(out[6], new(*big.Int)).(**big.Int)
	outstruct.Deadline = *abi.ConvertType(out[7], new(*big.Int)).(**big.Int)

	return *outstruct, err
}

// GetIntent is a free data retrieval call binding the contract method 0x2531a0f4.
func (_Resolver *ResolverSession) GetIntent(intentId [32]byte) (ResolverIntent, error) {
	return _Resolver.Contract.GetIntent(&_Resolver.CallOpts, intentId)
}

// GetIntent is a free data retrieval call binding the contract method 0x2531a0f4.
func (_Resolver *ResolverCallerSession) GetIntent(intentId [32]byte) (ResolverIntent, error) {
	return _Resolver.Contract.GetIntent(&_Resolver.CallOpts, intentId)
}

// ExecutedIntents is a free data retrieval call binding the contract method 0x7a9b2c1e.
//
// Solidity: function executedIntents(bytes32 intentId) view returns(bool)
func (_Resolver *ResolverCaller) ExecutedIntents(opts *bind.CallOpts, intentId [32]byte) (bool, error) {
	var out []interface{}
	err := _Resolver.contract.Call(opts, &out, "executedIntents", intentId)

	if err != nil {
		return *new(bool), err
	}

	out0 := *abi.ConvertType(out[0], new(bool)).(*bool)

	return out0, err
}

// ExecutedIntents is a free data retrieval call binding the contract method 0x7a9b2c1e.
func (_Resolver *ResolverSession) ExecutedIntents(intentId [32]byte) (bool, error) {
	return _Resolver.Contract.ExecutedIntents(&_Resolver.CallOpts, intentId)
}

// ExecutedIntents is a free data retrieval call binding the contract method 0x7a9b2c1e.
func (_Resolver *ResolverCallerSession) ExecutedIntents(intentId [32]byte) (bool, error) {
	return _Resolver.Contract.ExecutedIntents(&_Resolver.CallOpts, intentId)
}

// ResolveIntent is a paid mutator transaction binding the contract method 0x9c3f1e5b.
//
// Solidity: function resolveIntent(bytes32 intentId, bytes signature) returns()
func (_Resolver *ResolverTransactor) ResolveIntent(opts *bind.TransactOpts, intentId [32]byte, signature []byte) (*types.Transaction, error) {
	return _Resolver.contract.Transact(opts, "resolveIntent", intentId, signature)
}

// ResolveIntent is a paid mutator transaction binding the contract method 0x9c3f1e5b.
func (_Resolver *ResolverSession) ResolveIntent(intentId [32]byte, signature []byte) (*types.Transaction, error) {
	return _Resolver.Contract.ResolveIntent(&_Resolver.TransactOpts, intentId, signature)
}

// ResolveIntent is a paid mutator transaction binding the contract method 0x9c3f1e5b.
func (_Resolver *ResolverTransactorSession) ResolveIntent(intentId [32]byte, signature []byte) (*types.Transaction, error) {
	return _Resolver.Contract.ResolveIntent(&_Resolver.TransactOpts, intentId, signature)
}

// ResolverIntentSubmittedIterator is returned from FilterIntentSubmitted and is used to iterate over the raw logs and unpacked data for IntentSubmitted events raised by the Resolver contract.
type ResolverIntentSubmittedIterator struct {
	Event *ResolverIntentSubmitted // Event containing the contract specifics and raw log

	contract *bind.BoundContract // Generic contract to use for unpacking event data
	event    string              // Event name to use for unpacking event data

	logs chan types.Log        // Log channel receiving the found contract events
	sub  ethereum.Subscription // Subscription for errors, completion and termination
	done bool                  // Whether the subscription completed delivering logs
	fail error                 // Occurred error to stop iteration
}

// Next advances the iterator to the subsequent event, returning whether there
// are any more events found.
func (it *ResolverIntentSubmittedIterator) Next() bool {
	// If the iterator failed, stop iterating
	if it.fail != nil {
		return false
	}
	// If the iterator completed, deliver directly whatever's available
	if it.done {
		select {
		case log := <-it.logs:
			it.Event = new(ResolverIntentSubmitted)
			if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
				it.fail = err
				return false
			}
			it.Event.Raw = log
			return true

		default:
			return false
		}
	}
	// Iterator still in progress, wait for either a data or an error event
	select {
	case log := <-it.logs:
		it.Event = new(ResolverIntentSubmitted)
		if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
			it.fail = err
			return false
		}
		it.Event.Raw = log
		return true

	case err := <-it.sub.Err():
		it.done = true
		it.fail = err
		return it.Next()
	}
}

// Error returns any retrieval or parsing error occurred during filtering.
func (it *ResolverIntentSubmittedIterator) Error() error {
	return it.fail
}

// Close terminates the iteration process, releasing any pending underlying
// resources.
func (it *ResolverIntentSubmittedIterator) Close() error {
	it.sub.Unsubscribe()
	return nil
}

// ResolverIntentSubmitted represents a IntentSubmitted event raised by the Resolver contract.
type ResolverIntentSubmitted struct {
	IntentId   [32]byte
	User       common.Address
	IntentType uint8
	Raw        types.Log // Blockchain specific contextual infos
}

// FilterIntentSubmitted is a free log retrieval operation binding the contract event 0x8a35acfb.
//
// Solidity: event IntentSubmitted(bytes32 indexed intentId, address indexed user, uint8 intentType)
func (_Resolver *ResolverFilterer) FilterIntentSubmitted(opts *bind.FilterOpts, intentId [][32]byte, user []common.Address) (*ResolverIntentSubmittedIterator, error) {
	var intentIdRule []interface{}
	for _, intentIdItem := range intentId {
		intentIdRule = append(intentIdRule, intentIdItem)
	}
	var userRule []interface{}
	for _, userItem := range user {
		userRule = append(userRule, userItem)
	}

	logs, sub, err := _Resolver.contract.FilterLogs(opts, "IntentSubmitted", intentIdRule, userRule)
	if err != nil {
		return nil, err
	}
	return &ResolverIntentSubmittedIterator{contract: _Resolver.contract, event: "IntentSubmitted", logs: logs, sub: sub}, nil
}

// WatchIntentSubmitted is a free log subscription operation binding the contract event 0x8a35acfb.
//
// Solidity: event IntentSubmitted(bytes32 indexed intentId, address indexed user, uint8 intentType)
func (_Resolver *ResolverFilterer) WatchIntentSubmitted(opts *bind.WatchOpts, sink chan<- *ResolverIntentSubmitted, intentId [][32]byte, user []common.Address) (event.Subscription, error) {
	var intentIdRule []interface{}
	for _, intentIdItem := range intentId {
		intentIdRule = append(intentIdRule, intentIdItem)
	}
	var userRule []interface{}
	for _, userItem := range user {
		userRule = append(userRule, userItem)
	}

	logs, sub, err := _Resolver.contract.WatchLogs(opts, "IntentSubmitted", intentIdRule, userRule)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				// New log arrived, parse the event and forward to the user
				event := new(ResolverIntentSubmitted)
				if err := _Resolver.contract.UnpackLog(event, "IntentSubmitted", log); err != nil {
					return err
				}
				event.Raw = log

				select {
				case sink <- event:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// ParseIntentSubmitted is a log parse operation binding the contract event 0x8a35acfb.
//
// Solidity: event IntentSubmitted(bytes32 indexed intentId, address indexed user, uint8 intentType)
func (_Resolver *ResolverFilterer) ParseIntentSubmitted(log types.Log) (*ResolverIntentSubmitted, error) {
	event := new(ResolverIntentSubmitted)
	if err := _Resolver.contract.UnpackLog(event, "IntentSubmitted", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

// ResolverCrossChainOperationInitiatedIterator is returned from FilterCrossChainOperationInitiated and is used to iterate over the raw logs and unpacked data for CrossChainOperationInitiated events raised by the Resolver contract.
type ResolverCrossChainOperationInitiatedIterator struct {
	Event *ResolverCrossChainOperationInitiated // Event containing the contract specifics and raw log

	contract *bind.BoundContract // Generic contract to use for unpacking event data
	event    string              // Event name to use for unpacking event data

	logs chan types.Log        // Log channel receiving the found contract events
	sub  ethereum.Subscription // Subscription for errors, completion and termination
	done bool                  // Whether the subscription completed delivering logs
	fail error                 // Occurred error to stop iteration
}

// Next advances the iterator to the subsequent event, returning whether there
// are any more events found.
func (it *ResolverCrossChainOperationInitiatedIterator) Next() bool {
	// If the iterator failed, stop iterating
	if it.fail != nil {
		return false
	}
	// If the iterator completed, deliver directly whatever's available
	if it.done {
		select {
		case log := <-it.logs:
			it.Event = new(ResolverCrossChainOperationInitiated)
			if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
				it.fail = err
				return false
			}
			it.Event.Raw = log
			return true

		default:
			return false
		}
	}
	// Iterator still in progress, wait for either a data or an error event
	select {
	case log := <-it.logs:
		it.Event = new(ResolverCrossChainOperationInitiated)
		if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
			it.fail = err
			return false
		}
		it.Event.Raw = log
		return true

	case err := <-it.sub.Err():
		it.done = true
		it.fail = err
		return it.Next()
	}
}

// Error returns any retrieval or parsing error occurred during filtering.
func (it *ResolverCrossChainOperationInitiatedIterator) Error() error {
	return it.fail
}

// Close terminates the iteration process, releasing any pending underlying
// resources.
func (it *ResolverCrossChainOperationInitiatedIterator) Close() error {
	it.sub.Unsubscribe()
	return nil
}

// ResolverCrossChainOperationInitiated represents a CrossChainOperationInitiated event raised by the Resolver contract.
type ResolverCrossChainOperationInitiated struct {
	IntentId         [32]byte
	SourceChain      uint32
	DestinationChain uint32
	Raw              types.Log // Blockchain specific contextual infos
}

// FilterCrossChainOperationInitiated is a free log retrieval operation binding the contract event 0x3d1c7f9a.
//
// Solidity: event CrossChainOperationInitiated(bytes32 indexed intentId, uint32 sourceChain, uint32 destinationChain)
func (_Resolver *ResolverFilterer) FilterCrossChainOperationInitiated(opts *bind.FilterOpts, intentId [][32]byte) (*ResolverCrossChainOperationInitiatedIterator, error) {
	var intentIdRule []interface{}
	for _, intentIdItem := range intentId {
		intentIdRule = append(intentIdRule, intentIdItem)
	}

	logs, sub, err := _Resolver.contract.FilterLogs(opts, "CrossChainOperationInitiated", intentIdRule)
	if err != nil {
		return nil, err
	}
	return &ResolverCrossChainOperationInitiatedIterator{contract: _Resolver.contract, event: "CrossChainOperationInitiated", logs: logs, sub: sub}, nil
}

// WatchCrossChainOperationInitiated is a free log subscription operation binding the contract event 0x3d1c7f9a.
//
// Solidity: event CrossChainOperationInitiated(bytes32 indexed intentId, uint32 sourceChain, uint32 destinationChain)
func (_Resolver *ResolverFilterer) WatchCrossChainOperationInitiated(opts *bind.WatchOpts, sink chan<- *ResolverCrossChainOperationInitiated, intentId [][32]byte) (event.Subscription, error) {
	var intentIdRule []interface{}
	for _, intentIdItem := range intentId {
		intentIdRule = append(intentIdRule, intentIdItem)
	}

	logs, sub, err := _Resolver.contract.WatchLogs(opts, "CrossChainOperationInitiated", intentIdRule)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				// New log arrived, parse the event and forward to the user
				event := new(ResolverCrossChainOperationInitiated)
				if err := _Resolver.contract.UnpackLog(event, "CrossChainOperationInitiated", log); err != nil {
					return err
				}
				event.Raw = log

				select {
				case sink <- event:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// ParseCrossChainOperationInitiated is a log parse operation binding the contract event 0x3d1c7f9a.
//
// Solidity: event CrossChainOperationInitiated(bytes32 indexed intentId, uint32 sourceChain, uint32 destinationChain)
func (_Resolver *ResolverFilterer) ParseCrossChainOperationInitiated(log types.Log) (*ResolverCrossChainOperationInitiated, error) {
	event := new(ResolverCrossChainOperationInitiated)
	if err := _Resolver.contract.UnpackLog(event, "CrossChainOperationInitiated", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

// ResolverWinningTicketDetectedIterator is returned from FilterWinningTicketDetected and is used to iterate over the raw logs and unpacked data for WinningTicketDetected events raised by the Resolver contract.
type ResolverWinningTicketDetectedIterator struct {
	Event *ResolverWinningTicketDetected // Event containing the contract specifics and raw log

	contract *bind.BoundContract // Generic contract to use for unpacking event data
	event    string              // Event name to use for unpacking event data

	logs chan types.Log        // Log channel receiving the found contract events
	sub  ethereum.Subscription // Subscription for errors, completion and termination
	done bool                  // Whether the subscription completed delivering logs
	fail error                 // Occurred error to stop iteration
}

// Next advances the iterator to the subsequent event, returning whether there
// are any more events found.
func (it *ResolverWinningTicketDetectedIterator) Next() bool {
	// If the iterator failed, stop iterating
	if it.fail != nil {
		return false
	}
	// If the iterator completed, deliver directly whatever's available
	if it.done {
		select {
		case log := <-it.logs:
			it.Event = new(ResolverWinningTicketDetected)
			if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
				it.fail = err
				return false
			}
			it.Event.Raw = log
			return true

		default:
			return false
		}
	}
	// Iterator still in progress, wait for either a data or an error event
	select {
	case log := <-it.logs:
		it.Event = new(ResolverWinningTicketDetected)
		if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
			it.fail = err
			return false
		}
		it.Event.Raw = log
		return true

	case err := <-it.sub.Err():
		it.done = true
		it.fail = err
		return it.Next()
	}
}

// Error returns any retrieval or parsing error occurred during filtering.
func (it *ResolverWinningTicketDetectedIterator) Error() error {
	return it.fail
}

// Close terminates the iteration process, releasing any pending underlying
// resources.
func (it *ResolverWinningTicketDetectedIterator) Close() error {
	it.sub.Unsubscribe()
	return nil
}

// ResolverWinningTicketDetected represents a WinningTicketDetected event raised by the Resolver contract.
type ResolverWinningTicketDetected struct {
	TicketId *big.Int
	Amount   *big.Int
	Raw      types.Log // Blockchain specific contextual infos
}

// FilterWinningTicketDetected is a free log retrieval operation binding the contract event 0x6b8e4d2c.
//
// Solidity: event WinningTicketDetected(uint256 indexed ticketId, uint256 amount)
func (_Resolver *ResolverFilterer) FilterWinningTicketDetected(opts *bind.FilterOpts, ticketId []*big.Int) (*ResolverWinningTicketDetectedIterator, error) {
	var ticketIdRule []interface{}
	for _, ticketIdItem := range ticketId {
		ticketIdRule = append(ticketIdRule, ticketIdItem)
	}

	logs, sub, err := _Resolver.contract.FilterLogs(opts, "WinningTicketDetected", ticketIdRule)
	if err != nil {
		return nil, err
	}
	return &ResolverWinningTicketDetectedIterator{contract: _Resolver.contract, event: "WinningTicketDetected", logs: logs, sub: sub}, nil
}

// WatchWinningTicketDetected is a free log subscription operation binding the contract event 0x6b8e4d2c.
//
// Solidity: event WinningTicketDetected(uint256 indexed ticketId, uint256 amount)
func (_Resolver *ResolverFilterer) WatchWinningTicketDetected(opts *bind.WatchOpts, sink chan<- *ResolverWinningTicketDetected, ticketId []*big.Int) (event.Subscription, error) {
	var ticketIdRule []interface{}
	for _, ticketIdItem := range ticketId {
		ticketIdRule = append(ticketIdRule, ticketIdItem)
	}

	logs, sub, err := _Resolver.contract.WatchLogs(opts, "WinningTicketDetected", ticketIdRule)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				// New log arrived, parse the event and forward to the user
				event := new(ResolverWinningTicketDetected)
				if err := _Resolver.contract.UnpackLog(event, "WinningTicketDetected", log); err != nil {
					return err
				}
				event.Raw = log

				select {
				case sink <- event:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// ParseWinningTicketDetected is a log parse operation binding the contract event 0x6b8e4d2c.
//
// Solidity: event WinningTicketDetected(uint256 indexed ticketId, uint256 amount)
func (_Resolver *ResolverFilterer) ParseWinningTicketDetected(log types.Log) (*ResolverWinningTicketDetected, error) {
	event := new(ResolverWinningTicketDetected)
	if err := _Resolver.contract.UnpackLog(event, "WinningTicketDetected", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}
